package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devconnect/backend/internal/services"
	"github.com/devconnect/backend/internal/utils"
)

type ProfileHandler struct {
	svc services.ProfileService
}

func NewProfileHandler(svc services.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

type UpsertProfileRequest struct {
	Company        *string `json:"company,omitempty"`
	Website        *string `json:"website,omitempty"`
	Location       *string `json:"location,omitempty"`
	Bio            *string `json:"bio,omitempty"`
	Status         *string `json:"status,omitempty"`
	GithubUsername *string `json:"githubusername,omitempty"`
	Skills         *string `json:"skills,omitempty"`
	Youtube        *string `json:"youtube,omitempty"`
	Twitter        *string `json:"twitter,omitempty"`
	Facebook       *string `json:"facebook,omitempty"`
	Linkedin       *string `json:"linkedin,omitempty"`
	Instagram      *string `json:"instagram,omitempty"`
}

func (h *ProfileHandler) Me(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	p, err := h.svc.GetMe(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) Upsert(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ProfileHandler.Upsert", "invalid request body", err))
		return
	}

	p, err := h.svc.CreateOrUpdate(c.Request.Context(), userID, services.ProfileInput{
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Bio:            req.Bio,
		Status:         req.Status,
		GithubUsername: req.GithubUsername,
		Skills:         req.Skills,
		Youtube:        req.Youtube,
		Twitter:        req.Twitter,
		Facebook:       req.Facebook,
		Linkedin:       req.Linkedin,
		Instagram:      req.Instagram,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) List(c *gin.Context) {
	out, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *ProfileHandler) GetByUser(c *gin.Context) {
	targetID, err := primitive.ObjectIDFromHex(c.Param("user_id"))
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ProfileHandler.GetByUser", "invalid user id", err))
		return
	}

	p, err := h.svc.GetByUser(c.Request.Context(), targetID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteWithUser(c.Request.Context(), userID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user and profile deleted"})
}

type ExperienceRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	From        string `json:"from"`
	To          string `json:"to,omitempty"`
	Current     bool   `json:"current"`
	Description string `json:"description,omitempty"`
}

// parseDate accepts date-only or full RFC3339 timestamps.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func (req ExperienceRequest) toInput(op string) (services.ExperienceInput, error) {
	in := services.ExperienceInput{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		Current:     req.Current,
		Description: req.Description,
	}

	if req.From != "" {
		from, err := parseDate(req.From)
		if err != nil {
			return in, utils.Ev(op, utils.FieldError{Field: "from", Message: "from must be a valid date"})
		}
		in.From = from
	}
	if req.To != "" {
		to, err := parseDate(req.To)
		if err != nil {
			return in, utils.Ev(op, utils.FieldError{Field: "to", Message: "to must be a valid date"})
		}
		in.To = &to
	}
	return in, nil
}

func (h *ProfileHandler) AddExperience(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	const op = "ProfileHandler.AddExperience"

	var req ExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}

	in, err := req.toInput(op)
	if err != nil {
		writeError(c, err)
		return
	}

	p, err := h.svc.AddExperience(c.Request.Context(), userID, in)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) ReplaceExperience(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	const op = "ProfileHandler.ReplaceExperience"

	expID, err := primitive.ObjectIDFromHex(c.Param("exp_id"))
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid experience id", err))
		return
	}

	var req ExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}

	in, err := req.toInput(op)
	if err != nil {
		writeError(c, err)
		return
	}

	p, err := h.svc.ReplaceExperience(c.Request.Context(), userID, expID, in)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) RemoveExperience(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	const op = "ProfileHandler.RemoveExperience"

	expID, err := primitive.ObjectIDFromHex(c.Param("exp_id"))
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid experience id", err))
		return
	}

	if err := h.svc.RemoveExperience(c.Request.Context(), userID, expID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "experience removed"})
}

package webserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ummah-scheduler/scheduler/src/api/types"
	"github.com/ummah-scheduler/scheduler/src/workflow"
)

func (s *Server) listSubmissions(c *gin.Context) {
	subs, err := s.deps.Reconciler.Submissions(c.Request.Context())
	if err != nil {
		respondErr(c, "submissions", err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

func (s *Server) listFollowUps(c *gin.Context) {
	subs, err := s.deps.Reconciler.FollowUps(c.Request.Context())
	if err != nil {
		respondErr(c, "followup", err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

func (s *Server) listAdminSubmissions(c *gin.Context) {
	rows, err := s.deps.Store.ListAll(c.Request.Context(), "submitted DESC")
	if err != nil {
		respondErr(c, "admin submissions", err)
		return
	}
	if rows == nil {
		rows = []types.SubmissionRecord{}
	}
	c.JSON(http.StatusOK, rows)
}

type saveStatusRequest struct {
	ID            string       `json:"id" binding:"required"`
	Status        types.Status `json:"status" binding:"required"`
	PickedBy      string       `json:"pickedBy"`
	PickedByEmail string       `json:"pickedByEmail"`

	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Industry         string `json:"industry"`
	AcademicStanding string `json:"academicStanding"`
	LookingFor       string `json:"lookingFor"`
	Resume           string `json:"resume"`
	HowTheyHeard     string `json:"howTheyHeard"`
	Availability     string `json:"availability"`
	Timeline         string `json:"timeline"`
	OtherInfo        string `json:"otherInfo"`
	Submitted        string `json:"submitted"`
}

// record builds the row to upsert and the columns an existing row should take
// from it. Empty content fields never overwrite stored ones.
func (r saveStatusRequest) record() (types.SubmissionRecord, []string) {
	rec := types.SubmissionRecord{
		ID:               r.ID,
		Status:           r.Status,
		PickedBy:         r.PickedBy,
		PickedByEmail:    r.PickedByEmail,
		Name:             r.Name,
		Email:            r.Email,
		Phone:            r.Phone,
		Industry:         r.Industry,
		AcademicStanding: r.AcademicStanding,
		LookingFor:       r.LookingFor,
		Resume:           r.Resume,
		HowTheyHeard:     r.HowTheyHeard,
		Availability:     r.Availability,
		Timeline:         r.Timeline,
		OtherInfo:        r.OtherInfo,
		Submitted:        r.Submitted,
	}
	cols := []string{workflow.ColStatus, workflow.ColPickedBy}
	if r.PickedByEmail != "" {
		cols = append(cols, workflow.ColPickedByEmail)
	}
	content := []string{r.Name, r.Email, r.Phone, r.Industry, r.AcademicStanding, r.LookingFor,
		r.Resume, r.HowTheyHeard, r.Availability, r.Timeline, r.OtherInfo, r.Submitted}
	for i, v := range content {
		if v != "" {
			cols = append(cols, workflow.ContentColumns[i])
		}
	}
	return rec, cols
}

func (s *Server) saveStatus(c *gin.Context) {
	var req saveStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Missing required fields")
		return
	}
	if !req.Status.Valid() {
		respondError(c, http.StatusBadRequest, "invalid status "+string(req.Status))
		return
	}

	ctx := c.Request.Context()
	rec, cols := req.record()
	if err := s.deps.Store.Upsert(ctx, rec, cols...); err != nil {
		respondErr(c, "save status", err)
		return
	}
	if req.Status == types.StatusDone && req.PickedByEmail != "" {
		details := req.Name
		if details == "" {
			details = req.ID
		}
		if err := s.deps.Store.LogAction(ctx, req.PickedByEmail, types.ActionDone, details); err != nil {
			log.Printf("webserver: warning: could not log done for %s: %v", req.PickedByEmail, err)
		}
	}
	s.exportSnapshot(c)
	c.JSON(http.StatusOK, gin.H{"message": "Status saved"})
}

func (s *Server) exportSnapshot(c *gin.Context) {
	if s.cfg.SnapshotPath == "" {
		return
	}
	if err := s.deps.Store.ExportSnapshot(c.Request.Context(), s.cfg.SnapshotPath); err != nil {
		log.Printf("webserver: warning: snapshot export failed: %v", err)
	}
}

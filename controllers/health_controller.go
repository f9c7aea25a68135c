package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Shubh1hulk/SIH-Demo/database"
	"github.com/Shubh1hulk/SIH-Demo/knowledge"
	"github.com/Shubh1hulk/SIH-Demo/models"
)

// HealthController serves liveness and the read-only knowledge base
// lookups.
type HealthController struct {
	idx             *knowledge.Index
	store           database.ConversationStore
	sessions        *database.SessionStore
	emergencyNumber string
}

func NewHealthController(
	idx *knowledge.Index,
	store database.ConversationStore,
	sessions *database.SessionStore,
	emergencyNumber string,
) *HealthController {
	return &HealthController{
		idx:             idx,
		store:           store,
		sessions:        sessions,
		emergencyNumber: emergencyNumber,
	}
}

// Health reports process liveness and conversation store reachability.
// A failing store ping turns the whole check into a 503 so orchestrators
// restart or route around the instance.
func (hc *HealthController) Health(c *gin.Context) {
	diseases, symptoms, vaccinations, alerts := hc.idx.Counts()

	data := gin.H{
		"status":          "ok",
		"database":        "ok",
		"active_sessions": hc.sessions.Len(),
		"knowledge_base": gin.H{
			"diseases":     diseases,
			"symptoms":     symptoms,
			"vaccinations": vaccinations,
			"alerts":       alerts,
		},
	}

	if err := hc.store.Ping(c.Request.Context()); err != nil {
		data["status"] = "degraded"
		data["database"] = "unreachable"
		respond(c, http.StatusServiceUnavailable, "conversation store unreachable", data)
		return
	}

	respond(c, http.StatusOK, "service healthy", data)
}

// GetDisease returns one knowledge base disease by name or alias.
func (hc *HealthController) GetDisease(c *gin.Context) {
	d, err := hc.idx.Disease(c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "disease found", d)
}

// GetSymptom returns one knowledge base symptom by name or synonym.
func (hc *HealthController) GetSymptom(c *gin.Context) {
	name := c.Param("name")
	if canonical, ok := hc.idx.CanonicalSymptom(name); ok {
		name = canonical
	}
	s, err := hc.idx.Symptom(name)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "symptom found", s)
}

// GetVaccinations returns the immunization schedule. The vaccine query
// parameter selects one schedule by name; age_months trims the schedule to
// doses still ahead of a child of that age.
func (hc *HealthController) GetVaccinations(c *gin.Context) {
	if name := c.Query("vaccine"); name != "" {
		sched, err := hc.idx.Vaccination(name)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "vaccination schedule", gin.H{
			"schedules": []models.VaccinationSchedule{*sched},
		})
		return
	}

	if ageStr := c.Query("age_months"); ageStr != "" {
		age, err := strconv.Atoi(ageStr)
		if err != nil || age < 0 {
			respondBadRequest(c, "age_months must be a non-negative integer")
			return
		}
		schedules := hc.idx.VaccinationsForAge(age)
		respond(c, http.StatusOK, "vaccination schedule", gin.H{
			"age_months": age,
			"schedules":  schedules,
		})
		return
	}

	respond(c, http.StatusOK, "vaccination schedule", gin.H{
		"schedules": hc.idx.Vaccinations(),
	})
}

// GetEmergency returns emergency contact numbers and first-response
// guidance.
func (hc *HealthController) GetEmergency(c *gin.Context) {
	respond(c, http.StatusOK, "emergency contacts", gin.H{
		"ambulance":          hc.emergencyNumber,
		"national_emergency": "112",
		"health_helpline":    "104",
		"guidance": []string{
			"Call " + hc.emergencyNumber + " immediately for any medical emergency.",
			"Stay with the person and keep them calm until help arrives.",
			"Do not give food or water to someone who is unconscious.",
			"Keep the person's medicines and medical records ready for the responders.",
		},
	})
}

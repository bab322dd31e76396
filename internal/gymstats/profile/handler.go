package profile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/gymprofile/internal/gymstats/library"
	"github.com/2beens/gymprofile/internal/gymstats/workouts"
	"github.com/2beens/gymprofile/internal/telemetry/tracing"
	"github.com/2beens/gymprofile/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type profileService interface {
	RecordLog(ctx context.Context, workoutLog workouts.WorkoutLog) (*workouts.WorkoutLog, error)
	UpdateLog(ctx context.Context, id string, workoutLog workouts.WorkoutLog) (*workouts.WorkoutLog, error)
	Recompute(ctx context.Context, userID string) (*UserProfile, error)
	Migrate(ctx context.Context, userID string) (*workouts.MigrationReport, error)
	Profile(ctx context.Context, userID string) (*UserProfile, error)
	Logs(ctx context.Context, filter workouts.Filter) ([]workouts.WorkoutLog, error)
}

type exerciseLibrary interface {
	Exercises() []library.Exercise
}

type ListLogsResponse struct {
	Logs  []workouts.WorkoutLog `json:"logs"`
	Total int                   `json:"total"`
}

type Handler struct {
	service profileService
	library exerciseLibrary
}

func NewHandler(service profileService, library exerciseLibrary) *Handler {
	return &Handler{
		service: service,
		library: library,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/users/{user}/logs", handler.HandleRecordLog).Methods("POST", "OPTIONS").Name("record-log")
	router.HandleFunc("/users/{user}/logs", handler.HandleListLogs).Methods("GET", "OPTIONS").Name("list-logs")
	router.HandleFunc("/users/{user}/logs/{id}", handler.HandleUpdateLog).Methods("PUT", "OPTIONS").Name("update-log")
	router.HandleFunc("/users/{user}/profile", handler.HandleGetProfile).Methods("GET", "OPTIONS").Name("get-profile")
	router.HandleFunc("/users/{user}/profile/recompute", handler.HandleRecompute).Methods("POST", "OPTIONS").Name("recompute-profile")
	router.HandleFunc("/users/{user}/migrate", handler.HandleMigrate).Methods("POST", "OPTIONS").Name("migrate-logs")
	router.HandleFunc("/library", handler.HandleLibrary).Methods("GET", "OPTIONS").Name("library")
}

func (handler *Handler) HandleRecordLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.logs.record")
	defer span.End()

	userID := mux.Vars(r)["user"]
	if userID == "" {
		http.Error(w, "error, user empty", http.StatusBadRequest)
		return
	}

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var workoutLog workouts.WorkoutLog
	if err := json.NewDecoder(r.Body).Decode(&workoutLog); err != nil {
		log.Tracef("record log, unmarshal json params: %s", err)
		http.Error(w, "record log failed", http.StatusBadRequest)
		return
	}
	workoutLog.UserID = userID

	recorded, err := handler.service.RecordLog(ctx, workoutLog)
	if err != nil {
		if errors.Is(err, ErrInvalidLog) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if recorded == nil {
			log.Errorf("failed to record log [%s] [%s]: %s", userID, workoutLog.Exercise, err)
			http.Error(w, "error, failed to record log", http.StatusInternalServerError)
			return
		}
		// the log is stored, the next recompute repairs the profile
		log.Errorf("recorded log [%s], profile not updated: %s", recorded.ID, err)
	}

	recordedJson, err := json.Marshal(recorded)
	if err != nil {
		log.Errorf("failed to marshal recorded log: %s", err)
		http.Error(w, "error, failed to record log", http.StatusInternalServerError)
		return
	}

	log.Debugf("new workout log recorded: %s", recordedJson)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, recordedJson, http.StatusCreated)
}

func (handler *Handler) HandleUpdateLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.logs.update")
	defer span.End()

	vars := mux.Vars(r)
	userID := vars["user"]
	id := vars["id"]
	if userID == "" || id == "" {
		http.Error(w, "error, user or id empty", http.StatusBadRequest)
		return
	}

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var workoutLog workouts.WorkoutLog
	if err := json.NewDecoder(r.Body).Decode(&workoutLog); err != nil {
		log.Tracef("update log, unmarshal json params: %s", err)
		http.Error(w, "update log failed", http.StatusBadRequest)
		return
	}
	workoutLog.UserID = userID

	updated, err := handler.service.UpdateLog(ctx, id, workoutLog)
	if err != nil {
		switch {
		case errors.Is(err, workouts.ErrLogNotFound):
			http.Error(w, "log not found", http.StatusNotFound)
			return
		case errors.Is(err, ErrInvalidLog):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		case errors.Is(err, ErrLogConflict):
			http.Error(w, err.Error(), http.StatusConflict)
			return
		case updated == nil:
			log.Errorf("failed to update log [%s]: %s", id, err)
			http.Error(w, "error, failed to update log", http.StatusInternalServerError)
			return
		default:
			log.Errorf("updated log [%s], profile not updated: %s", updated.ID, err)
		}
	}

	updatedJson, err := json.Marshal(updated)
	if err != nil {
		log.Errorf("failed to marshal updated log: %s", err)
		http.Error(w, "error, failed to update log", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, updatedJson, http.StatusOK)
}

func (handler *Handler) HandleListLogs(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.logs.list")
	defer span.End()

	userID := mux.Vars(r)["user"]
	if userID == "" {
		http.Error(w, "error, user empty", http.StatusBadRequest)
		return
	}

	logs, err := handler.service.Logs(ctx, workouts.Filter{
		UserID:   userID,
		Category: r.URL.Query().Get("category"),
	})
	if err != nil {
		log.Errorf("failed to list logs [%s]: %s", userID, err)
		http.Error(w, "error, failed to list logs", http.StatusInternalServerError)
		return
	}

	logsJson, err := json.Marshal(ListLogsResponse{
		Logs:  logs,
		Total: len(logs),
	})
	if err != nil {
		log.Errorf("failed to marshal logs: %s", err)
		http.Error(w, "failed to marshal logs", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, logsJson, http.StatusOK)
}

func (handler *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.profile.get")
	defer span.End()

	userID := mux.Vars(r)["user"]
	if userID == "" {
		http.Error(w, "error, user empty", http.StatusBadRequest)
		return
	}

	p, err := handler.service.Profile(ctx, userID)
	if err != nil {
		log.Errorf("failed to get profile [%s]: %s", userID, err)
		http.Error(w, "error, failed to get profile", http.StatusInternalServerError)
		return
	}

	handler.writeJSON(w, p, http.StatusOK)
}

func (handler *Handler) HandleRecompute(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.profile.recompute")
	defer span.End()

	userID := mux.Vars(r)["user"]
	if userID == "" {
		http.Error(w, "error, user empty", http.StatusBadRequest)
		return
	}

	p, err := handler.service.Recompute(ctx, userID)
	if err != nil {
		log.Errorf("failed to recompute profile [%s]: %s", userID, err)
		http.Error(w, "error, failed to recompute profile", http.StatusInternalServerError)
		return
	}

	handler.writeJSON(w, p, http.StatusOK)
}

func (handler *Handler) HandleMigrate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.migrate")
	defer span.End()

	userID := mux.Vars(r)["user"]
	if userID == "" {
		http.Error(w, "error, user empty", http.StatusBadRequest)
		return
	}

	report, err := handler.service.Migrate(ctx, userID)
	if err != nil {
		log.Errorf("failed to migrate logs [%s]: %s", userID, err)
		http.Error(w, "error, failed to migrate logs", http.StatusInternalServerError)
		return
	}
	if report.Warnings != nil {
		log.Warnf("migrate logs [%s]: %s", userID, report.Warnings)
	}

	handler.writeJSON(w, report, http.StatusOK)
}

func (handler *Handler) HandleLibrary(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.library")
	defer span.End()

	handler.writeJSON(w, handler.library.Exercises(), http.StatusOK)
}

func (handler *Handler) writeJSON(w http.ResponseWriter, v interface{}, statusCode int) {
	resJson, err := json.Marshal(v)
	if err != nil {
		log.Errorf("failed to marshal response: %s", err)
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resJson, statusCode)
}

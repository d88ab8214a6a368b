package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/domain"
)

type profileDTO struct {
	TelegramID    int64   `json:"telegram_id"`
	Name          string  `json:"name"`
	Age           int     `json:"age"`
	Weight        float64 `json:"weight"`
	Height        float64 `json:"height"`
	Gender        string  `json:"gender"`
	ActivityLevel string  `json:"activity_level"`
	Goal          string  `json:"goal"`
	WorkoutLevel  string  `json:"workout_level"`
	WorkoutDays   int     `json:"workout_days"`
	PlanQuota     int     `json:"plan_quota"`
	ChatQuota     int     `json:"chat_quota"`
}

type profileUpdateRequest struct {
	Name          *string  `json:"name"`
	Age           *int     `json:"age"`
	Weight        *float64 `json:"weight"`
	Height        *float64 `json:"height"`
	Gender        *string  `json:"gender"`
	ActivityLevel *string  `json:"activity_level"`
	Goal          *string  `json:"goal"`
	WorkoutLevel  *string  `json:"workout_level"`
	WorkoutDays   *int     `json:"workout_days"`
}

func toProfileDTO(u *domain.User) profileDTO {
	return profileDTO{
		TelegramID:    u.TelegramID,
		Name:          u.Name,
		Age:           u.Age,
		Weight:        u.Weight,
		Height:        u.Height,
		Gender:        string(u.Gender),
		ActivityLevel: string(u.ActivityLevel),
		Goal:          string(u.Goal),
		WorkoutLevel:  u.WorkoutLevel,
		WorkoutDays:   u.WorkoutDays,
		PlanQuota:     u.PlanQuota,
		ChatQuota:     u.ChatQuota,
	}
}

func (a *App) ProfileGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.userID(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid user id")
		return
	}
	user, err := a.Users.GetByID(r.Context(), userID)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, toProfileDTO(user))
}

// ProfileUpsert creates the user on first contact and applies a partial
// profile update. Nil fields stay untouched.
func (a *App) ProfileUpsert(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.userID(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid user id")
		return
	}
	var req profileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	update := domain.ProfileUpdate{
		Name:         req.Name,
		Age:          req.Age,
		Weight:       req.Weight,
		Height:       req.Height,
		WorkoutLevel: req.WorkoutLevel,
		WorkoutDays:  req.WorkoutDays,
	}
	if req.Gender != nil {
		g, err := domain.ParseGender(*req.Gender)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "unknown gender")
			return
		}
		update.Gender = &g
	}
	if req.ActivityLevel != nil {
		al, err := domain.ParseActivityLevel(*req.ActivityLevel)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "unknown activity level")
			return
		}
		update.ActivityLevel = &al
	}
	if req.Goal != nil {
		g, err := domain.ParseGoal(*req.Goal)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "unknown goal")
			return
		}
		update.Goal = &g
	}

	user, err := a.Users.Upsert(r.Context(), userID, update)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, toProfileDTO(user))
}

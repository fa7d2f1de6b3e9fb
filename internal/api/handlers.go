package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lvassor/my-club/internal/bus"
	"github.com/lvassor/my-club/internal/command"
	"github.com/lvassor/my-club/internal/domain"
	"github.com/lvassor/my-club/internal/session"
)

// createSession records an externally authenticated identity and returns the
// session cookie.
func (s *Server) createSession(c echo.Context) error {
	var req struct {
		UserID        string `json:"user_id"`
		ExternalToken string `json:"external_token"`
	}
	if err := c.Bind(&req); err != nil || req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	id := s.sessions.Create(session.Session{
		UserID:        req.UserID,
		ExternalToken: req.ExternalToken,
	})
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusCreated, map[string]string{"session_id": id})
}

func (s *Server) bindClub(c echo.Context) error {
	var req struct {
		ClubID string `json:"club_id"`
	}
	if err := c.Bind(&req); err != nil || req.ClubID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "club_id is required")
	}
	id, _ := c.Get("session_id").(string)
	if err := s.sessions.BindClub(id, req.ClubID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) deleteSession(c echo.Context) error {
	id, _ := c.Get("session_id").(string)
	s.sessions.Delete(id)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listClubs(c echo.Context) error {
	clubs, err := s.public.ListClubs(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clubs)
}

func (s *Server) listMyClubs(c echo.Context) error {
	clubs, err := s.public.ListUserClubs(c.Request().Context(), currentSession(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clubs)
}

func (s *Server) getClub(c echo.Context) error {
	club, err := s.public.GetClub(c.Request().Context(), c.Param("club_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, club)
}

func (s *Server) createClub(c echo.Context) error {
	var req struct {
		Name               string `json:"name"`
		RegistrationNumber string `json:"registration_number"`
	}
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	sess := currentSession(c)
	err := s.bus.Send(c.Request().Context(), command.CreateClub{
		CommandBase:        bus.NewCommandBase(sess.UserID),
		Name:               req.Name,
		RegistrationNumber: req.RegistrationNumber,
		OwnerID:            sess.UserID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "club created"})
}

func (s *Server) changeClubOwner(c echo.Context) error {
	var req struct {
		NewOwnerID string `json:"new_owner_id"`
	}
	if err := c.Bind(&req); err != nil || req.NewOwnerID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "new_owner_id is required")
	}
	err := s.bus.Send(c.Request().Context(), command.ChangeClubOwner{
		CommandBase: bus.NewCommandBase(currentSession(c).UserID),
		ClubID:      c.Param("club_id"),
		NewOwnerID:  req.NewOwnerID,
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) addCoach(c echo.Context) error {
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := c.Bind(&req); err != nil || req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}
	err := s.bus.Send(c.Request().Context(), command.AddCoach{
		CommandBase: bus.NewCommandBase(currentSession(c).UserID),
		ClubID:      c.Param("club_id"),
		UserID:      req.UserID,
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) getPlayerCard(c echo.Context) error {
	card, err := s.public.GetPlayerCard(c.Request().Context(), c.Param("player_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, card)
}

func (s *Server) registerPlayer(c echo.Context) error {
	var req struct {
		FirstName     string `json:"first_name"`
		LastName      string `json:"last_name"`
		Gender        string `json:"gender"`
		DateOfBirth   string `json:"date_of_birth"`
		Season        string `json:"season"`
		LicenseNumber string `json:"license_number"`
		LicenseType   string `json:"license_type"`
	}
	if err := c.Bind(&req); err != nil || req.FirstName == "" || req.LastName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "first_name and last_name are required")
	}
	dateOfBirth, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date_of_birth must be YYYY-MM-DD")
	}
	season := domain.Season(req.Season)
	if season == "" {
		season = domain.CurrentSeason(time.Now())
	}
	err = s.bus.Send(c.Request().Context(), command.RegisterPlayer{
		CommandBase:   bus.NewCommandBase(currentSession(c).UserID),
		ClubID:        c.Param("club_id"),
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Gender:        domain.Gender(req.Gender),
		DateOfBirth:   dateOfBirth,
		Season:        season,
		LicenseNumber: req.LicenseNumber,
		LicenseType:   domain.LicenseType(req.LicenseType),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "player registered"})
}

func (s *Server) listPlayers(c echo.Context) error {
	ctx := c.Request().Context()
	clubID := c.Param("club_id")
	page, perPage := paging(c)

	if term := c.QueryParam("search"); term != "" {
		result, err := s.club.SearchPlayers(ctx, clubID, term, page, perPage)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, result)
	}
	result, err := s.club.ListPlayers(ctx, clubID, page, perPage)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) listCollectives(c echo.Context) error {
	collectives, err := s.club.ListCollectives(c.Request().Context(), c.Param("club_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, collectives)
}

func (s *Server) createCollective(c echo.Context) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	err := s.bus.Send(c.Request().Context(), command.CreateCollective{
		CommandBase: bus.NewCommandBase(currentSession(c).UserID),
		ClubID:      c.Param("club_id"),
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "collective created"})
}

func (s *Server) addPlayerToCollective(c echo.Context) error {
	var req struct {
		PlayerID string `json:"player_id"`
	}
	if err := c.Bind(&req); err != nil || req.PlayerID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "player_id is required")
	}
	err := s.bus.Send(c.Request().Context(), command.AddPlayerToCollective{
		CommandBase:  bus.NewCommandBase(currentSession(c).UserID),
		CollectiveID: c.Param("collective_id"),
		PlayerID:     req.PlayerID,
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) removePlayerFromCollective(c echo.Context) error {
	err := s.bus.Send(c.Request().Context(), command.RemovePlayerFromCollective{
		CommandBase:  bus.NewCommandBase(currentSession(c).UserID),
		CollectiveID: c.Param("collective_id"),
		PlayerID:     c.Param("player_id"),
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listPlayersNotInCollective(c echo.Context) error {
	page, perPage := paging(c)
	result, err := s.club.PlayersNotInCollective(c.Request().Context(),
		c.Param("club_id"), c.Param("collective_id"), page, perPage)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) listTrainingSessions(c echo.Context) error {
	page, perPage := paging(c)
	result, err := s.club.ListTrainingSessions(c.Request().Context(), c.Param("club_id"), page, perPage)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) createTrainingSession(c echo.Context) error {
	var req struct {
		StartTime time.Time `json:"start_time"`
		EndTime   time.Time `json:"end_time"`
	}
	if err := c.Bind(&req); err != nil || req.StartTime.IsZero() || req.EndTime.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "start_time and end_time are required")
	}
	err := s.bus.Send(c.Request().Context(), command.CreateTrainingSession{
		CommandBase: bus.NewCommandBase(currentSession(c).UserID),
		ClubID:      c.Param("club_id"),
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "training session created"})
}

func (s *Server) getTrainingSession(c echo.Context) error {
	sessionRow, players, err := s.club.GetTrainingSession(c.Request().Context(),
		c.Param("club_id"), c.Param("session_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"training_session": sessionRow,
		"players":          players,
	})
}

func (s *Server) cancelTrainingSession(c echo.Context) error {
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.Bind(&req)
	err := s.bus.Send(c.Request().Context(), command.CancelTrainingSession{
		CommandBase:       bus.NewCommandBase(currentSession(c).UserID),
		ClubID:            c.Param("club_id"),
		TrainingSessionID: c.Param("session_id"),
		Reason:            req.Reason,
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) changePlayerStatus(c echo.Context) error {
	var req struct {
		Status      string    `json:"status"`
		Reason      string    `json:"reason"`
		WithReason  bool      `json:"with_reason"`
		ArrivalTime time.Time `json:"arrival_time"`
	}
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "status is required")
	}
	err := s.bus.Send(c.Request().Context(), command.ChangePlayerTrainingSessionStatus{
		CommandBase:       bus.NewCommandBase(currentSession(c).UserID),
		ClubID:            c.Param("club_id"),
		TrainingSessionID: c.Param("session_id"),
		PlayerID:          c.Param("player_id"),
		Status:            domain.TrainingStatus(req.Status),
		Reason:            req.Reason,
		WithReason:        req.WithReason,
		ArrivalTime:       req.ArrivalTime,
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) removePlayerFromSession(c echo.Context) error {
	err := s.bus.Send(c.Request().Context(), command.RemovePlayerFromTrainingSession{
		CommandBase:       bus.NewCommandBase(currentSession(c).UserID),
		ClubID:            c.Param("club_id"),
		TrainingSessionID: c.Param("session_id"),
		PlayerID:          c.Param("player_id"),
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listPlayersWithoutStatus(c echo.Context) error {
	page, perPage := paging(c)
	result, err := s.club.PlayersWithoutSessionStatus(c.Request().Context(),
		c.Param("club_id"), c.Param("session_id"), page, perPage)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// paging parses zero-based page and per_page query parameters.
func paging(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, err := strconv.Atoi(c.QueryParam("per_page"))
	if err != nil || perPage <= 0 {
		perPage = 20
	}
	return page, perPage
}

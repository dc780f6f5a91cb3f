package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"github.com/sr2706/parakram-backend/internal/db"
	"github.com/sr2706/parakram-backend/internal/events"
	"github.com/sr2706/parakram-backend/internal/model"
	"github.com/sr2706/parakram-backend/internal/repository"
	"github.com/sr2706/parakram-backend/pkg/logger"
	"go.uber.org/zap"
)

// IDAllocator issues team and player identifiers.
type IDAllocator interface {
	AllocateTeamID(ctx context.Context) (string, error)
	AllocatePlayerID(ctx context.Context) (string, error)
}

type TeamService struct {
	tx db.Transactor

	ids            IDAllocator
	teams          repository.TeamRepository
	players        repository.PlayerRepository
	accommodations repository.AccommodationRepository
	payments       repository.PaymentRepository

	limits   SportLimits
	validate *validator.Validate
	clock    clockwork.Clock
	events   events.Publisher
}

func NewTeamService(tx db.Transactor) *TeamService {
	return &TeamService{
		tx:       tx,
		validate: NewValidator(),
		clock:    clockwork.NewRealClock(),
	}
}

// RegisterTeam creates a team and its players as one unit. Writes after the team
// row are tracked so that a failure can be compensated; the team only becomes
// visible once Finalize has stored the complete player list.
func (t *TeamService) RegisterTeam(ctx context.Context, sportName string, inputs []model.PlayerInput) (*model.Team, *Error) {
	l := logger.FromContext(ctx)
	sportName = strings.TrimSpace(sportName)

	l.Info("registering team", zap.String("sport", sportName), zap.Int("players", len(inputs)))

	if verr := t.validateRegistration(sportName, inputs); verr != nil {
		l.Warn("registration rejected", zap.String("sport", sportName), zap.String("reason", verr.Message))
		return nil, verr
	}

	teamID, err := t.ids.AllocateTeamID(ctx)
	if err != nil {
		l.Error("failed to allocate team id", zap.Error(err))
		return nil, NewError(ErrorCodeAllocationFailed, "failed to allocate team id")
	}

	createdAt := t.clock.Now()
	if err = t.teams.Create(ctx, &repository.Team{
		ID:        teamID,
		SportName: sportName,
		Status:    model.TeamStatusProvisional,
		PlayerIDs: []string{},
		CreatedAt: createdAt,
	}); err != nil {
		l.Error("failed to create provisional team", zap.String("team_id", teamID), zap.Error(err))
		return nil, NewError(ErrorCodeUnavailable, "failed to create team")
	}

	saga := &registrationSaga{teamID: teamID}
	players := make([]*model.Player, 0, len(inputs))

	for i := range inputs {
		player, err := t.createPlayer(ctx, saga, teamID, sportName, &inputs[i])
		if err != nil {
			l.Error("failed to create player",
				zap.String("team_id", teamID),
				zap.Int("index", i),
				zap.Error(err))
			return nil, t.abort(ctx, saga, "create_player", err)
		}
		players = append(players, player)
	}

	row, err := t.teams.Finalize(ctx, teamID, saga.players)
	if err != nil {
		l.Error("failed to finalize team", zap.String("team_id", teamID), zap.Error(err))
		return nil, t.abort(ctx, saga, "finalize", err)
	}

	team := toTeam(row)
	team.Players = players

	l.Info("team registered", zap.String("team_id", teamID), zap.Strings("player_ids", saga.players))

	t.publish(ctx, events.New(events.TypeTeamRegistered, events.TeamRegistered{
		TeamID:    teamID,
		SportName: sportName,
		PlayerIDs: team.PlayerIDs,
	}, t.clock.Now()))

	return team, nil
}

func (t *TeamService) createPlayer(ctx context.Context, saga *registrationSaga, teamID, sportName string, in *model.PlayerInput) (*model.Player, error) {
	playerID, err := t.ids.AllocatePlayerID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "allocate player id")
	}

	player := &model.Player{
		ID:            playerID,
		Name:          strings.TrimSpace(in.Name),
		PhoneNumber:   strings.TrimSpace(in.PhoneNumber),
		CollegeName:   strings.TrimSpace(in.CollegeName),
		SportName:     sportName,
		Email:         in.Email,
		IDCardPicture: in.IDCardPicture,
		TeamID:        teamID,
	}

	err = t.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if in.AccommodationType != "" {
			price, _ := in.AccommodationType.Price()
			acc := &repository.Accommodation{
				ID:        uuid.NewString(),
				Type:      in.AccommodationType,
				Price:     price,
				CreatedAt: t.clock.Now(),
			}
			if err := t.accommodations.Create(txCtx, acc); err != nil {
				return errors.Wrap(err, "create accommodation")
			}
			saga.accommodations = append(saga.accommodations, acc.ID)

			player.AccommodationID = &acc.ID
			player.Accommodation = toAccommodation(acc)
		}

		row := &repository.Player{
			ID:              player.ID,
			Name:            player.Name,
			PhoneNumber:     player.PhoneNumber,
			CollegeName:     player.CollegeName,
			SportName:       player.SportName,
			Email:           player.Email,
			IDCardPicture:   player.IDCardPicture,
			TeamID:          player.TeamID,
			AccommodationID: player.AccommodationID,
			CreatedAt:       t.clock.Now(),
		}
		if err := t.players.Create(txCtx, row); err != nil {
			return errors.Wrap(err, "create player")
		}
		player.CreatedAt = row.CreatedAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	saga.players = append(saga.players, playerID)
	return player, nil
}

// abort compensates the saga and reports the partial registration.
func (t *TeamService) abort(ctx context.Context, saga *registrationSaga, step string, cause error) *Error {
	l := logger.FromContext(ctx)

	compensated := true
	if err := saga.compensate(context.WithoutCancel(ctx), t); err != nil {
		compensated = false
		l.Error("registration compensation incomplete",
			zap.String("team_id", saga.teamID),
			zap.Strings("player_ids", saga.players),
			zap.Error(err))
	} else {
		l.Warn("registration rolled back", zap.String("team_id", saga.teamID), zap.NamedError("cause", cause))
	}

	return NewError(ErrorCodePartialRegistration, "team registration failed and was not completed").
		WithDetails(map[string]any{
			"team_id":         saga.teamID,
			"players_created": len(saga.players),
			"failed_step":     step,
			"compensated":     compensated,
		})
}

type registrationSaga struct {
	teamID         string
	players        []string
	accommodations []string
}

// compensate undoes the saga in reverse order. It keeps going after a failed step
// and returns the first error; the team is left non-registered either way.
func (s *registrationSaga) compensate(ctx context.Context, t *TeamService) error {
	var first error
	keep := func(err error) {
		if err != nil && !errors.Is(err, repository.ErrNotFound) && first == nil {
			first = err
		}
	}

	for i := len(s.players) - 1; i >= 0; i-- {
		keep(errors.Wrapf(t.players.Delete(ctx, s.players[i]), "delete player %s", s.players[i]))
	}
	for i := len(s.accommodations) - 1; i >= 0; i-- {
		keep(errors.Wrapf(t.accommodations.Delete(ctx, s.accommodations[i]), "delete accommodation %s", s.accommodations[i]))
	}
	keep(errors.Wrapf(t.teams.SetStatus(ctx, s.teamID, model.TeamStatusFailed), "mark team %s failed", s.teamID))

	return first
}

func (t *TeamService) validateRegistration(sportName string, inputs []model.PlayerInput) *Error {
	if sportName == "" {
		return NewError(ErrorCodeInvalidInput, "sport_name is required")
	}
	if len(inputs) == 0 {
		return NewError(ErrorCodeInvalidInput, "at least one player is required")
	}
	if t.limits != nil {
		if limit := t.limits.Limit(sportName); len(inputs) > limit {
			return NewError(ErrorCodeInvalidInput, fmt.Sprintf("%s teams allow at most %d players, got %d", sportName, limit, len(inputs)))
		}
	}

	for i := range inputs {
		in := &inputs[i]
		if err := t.validate.Struct(in); err != nil {
			return NewError(ErrorCodeInvalidInput, validationMessage(fmt.Sprintf("player %d", i+1), err))
		}
		if strings.TrimSpace(in.Name) == "" {
			return NewError(ErrorCodeInvalidInput, fmt.Sprintf("player %d: name is required", i+1))
		}
		if strings.TrimSpace(in.PhoneNumber) == "" {
			return NewError(ErrorCodeInvalidInput, fmt.Sprintf("player %d: phone_number is required", i+1))
		}
		if got := strings.TrimSpace(in.SportName); got != sportName {
			return NewError(ErrorCodeInvalidInput, fmt.Sprintf("player %d: sport %q does not match team sport %q", i+1, got, sportName))
		}
	}
	return nil
}

func (t *TeamService) GetTeam(ctx context.Context, id string) (*model.Team, *Error) {
	l := logger.FromContext(ctx)
	l.Debug("getting team", zap.String("team_id", id))

	row, err := t.teams.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && row.Status != model.TeamStatusRegistered) {
		l.Warn("team not found", zap.String("team_id", id))
		return nil, NewError(ErrorCodeNotFound, "team not found")
	}
	if err != nil {
		l.Error("failed to get team", zap.String("team_id", id), zap.Error(err))
		return nil, NewError(ErrorCodeUnavailable, "failed to get team")
	}

	team, err := t.graph().team(ctx, row)
	if err != nil {
		l.Error("failed to resolve team", zap.String("team_id", id), zap.Error(err))
		return nil, NewError(ErrorCodeUnavailable, "failed to get team")
	}

	return team, nil
}

func (t *TeamService) ListTeams(ctx context.Context) ([]*model.Team, *Error) {
	return t.listTeams(ctx, nil)
}

// GetTeamsBySport reports NOT_FOUND when no registered team plays the sport.
func (t *TeamService) GetTeamsBySport(ctx context.Context, sport string) ([]*model.Team, *Error) {
	sport = strings.TrimSpace(sport)
	if sport == "" {
		return nil, NewError(ErrorCodeInvalidInput, "sport is required")
	}

	teams, serr := t.listTeams(ctx, &sport)
	if serr != nil {
		return nil, serr
	}
	if len(teams) == 0 {
		return nil, NewError(ErrorCodeNotFound, "no teams found for this sport")
	}
	return teams, nil
}

func (t *TeamService) listTeams(ctx context.Context, sport *string) ([]*model.Team, *Error) {
	l := logger.FromContext(ctx)

	rows, err := t.teams.ListRegistered(ctx, sport)
	if err != nil {
		l.Error("failed to list teams", zap.Error(err))
		return nil, NewError(ErrorCodeUnavailable, "failed to list teams")
	}

	teams, err := t.graph().teams(ctx, rows)
	if err != nil {
		l.Error("failed to resolve teams", zap.Error(err))
		return nil, NewError(ErrorCodeUnavailable, "failed to list teams")
	}
	return teams, nil
}

func (t *TeamService) graph() graph {
	return graph{players: t.players, accommodations: t.accommodations, payments: t.payments}
}

func (t *TeamService) publish(ctx context.Context, event events.Event) {
	publish(ctx, t.events, event)
}

func (t *TeamService) WithAllocator(a IDAllocator) *TeamService {
	t.ids = a
	return t
}

func (t *TeamService) WithTeamRepo(r repository.TeamRepository) *TeamService {
	t.teams = r
	return t
}

func (t *TeamService) WithPlayerRepo(r repository.PlayerRepository) *TeamService {
	t.players = r
	return t
}

func (t *TeamService) WithAccommodationRepo(r repository.AccommodationRepository) *TeamService {
	t.accommodations = r
	return t
}

func (t *TeamService) WithPaymentRepo(r repository.PaymentRepository) *TeamService {
	t.payments = r
	return t
}

func (t *TeamService) WithSportLimits(limits SportLimits) *TeamService {
	t.limits = limits
	return t
}

func (t *TeamService) WithClock(c clockwork.Clock) *TeamService {
	t.clock = c
	return t
}

func (t *TeamService) WithPublisher(p events.Publisher) *TeamService {
	t.events = p
	return t
}

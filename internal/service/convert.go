package service

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sr2706/parakram-backend/internal/model"
	"github.com/sr2706/parakram-backend/internal/repository"
)

func toTeam(t *repository.Team) *model.Team {
	playerIDs := make([]string, len(t.PlayerIDs))
	copy(playerIDs, t.PlayerIDs)

	return &model.Team{
		ID:          t.ID,
		SportName:   t.SportName,
		Status:      t.Status,
		PlayerIDs:   playerIDs,
		PaymentID:   t.PaymentID,
		DocumentURL: t.DocumentURL,
		CreatedAt:   t.CreatedAt,
	}
}

func toPlayer(p *repository.Player) *model.Player {
	return &model.Player{
		ID:              p.ID,
		Name:            p.Name,
		PhoneNumber:     p.PhoneNumber,
		CollegeName:     p.CollegeName,
		SportName:       p.SportName,
		Email:           p.Email,
		IDCardPicture:   p.IDCardPicture,
		TeamID:          p.TeamID,
		AccommodationID: p.AccommodationID,
		CreatedAt:       p.CreatedAt,
	}
}

func toAccommodation(a *repository.Accommodation) *model.Accommodation {
	return &model.Accommodation{
		ID:        a.ID,
		Type:      a.Type,
		Price:     a.Price,
		CreatedAt: a.CreatedAt,
	}
}

func toPayment(p *repository.Payment) *model.Payment {
	return &model.Payment{
		ID:            p.ID,
		TeamID:        p.TeamID,
		TransactionID: p.TransactionID,
		AmountPaid:    p.AmountPaid,
		PaymentDate:   p.PaymentDate,
		Screenshot: model.ScreenshotRef{
			URL:         p.ScreenshotURL,
			Key:         p.ScreenshotKey,
			ContentType: p.ScreenshotContentType,
			Size:        p.ScreenshotSize,
		},
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// graph resolves references between stored rows.
type graph struct {
	players        repository.PlayerRepository
	accommodations repository.AccommodationRepository
	payments       repository.PaymentRepository
}

var errUnresolved = errors.New("reference does not resolve")

// playersOf returns the players in ids order with their accommodation attached.
// With strict set, a missing player or accommodation is reported as errUnresolved.
func (g graph) playersOf(ctx context.Context, ids []string, strict bool) ([]*model.Player, error) {
	if len(ids) == 0 {
		return []*model.Player{}, nil
	}

	rows, err := g.players.GetMany(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get players")
	}
	byID := make(map[string]*repository.Player, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	players := make([]*model.Player, 0, len(ids))
	for _, id := range ids {
		row, ok := byID[id]
		if !ok {
			if strict {
				return nil, errors.Wrapf(errUnresolved, "player %s", id)
			}
			continue
		}
		players = append(players, toPlayer(row))
	}

	if err = g.attachAccommodations(ctx, players, strict); err != nil {
		return nil, err
	}
	return players, nil
}

func (g graph) attachAccommodations(ctx context.Context, players []*model.Player, strict bool) error {
	ids := make([]string, 0, len(players))
	for _, p := range players {
		if p.AccommodationID != nil {
			ids = append(ids, *p.AccommodationID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	rows, err := g.accommodations.GetMany(ctx, ids)
	if err != nil {
		return errors.Wrap(err, "get accommodations")
	}
	byID := make(map[string]*model.Accommodation, len(rows))
	for _, row := range rows {
		byID[row.ID] = toAccommodation(row)
	}

	for _, p := range players {
		if p.AccommodationID == nil {
			continue
		}
		a, ok := byID[*p.AccommodationID]
		if !ok && strict {
			return errors.Wrapf(errUnresolved, "accommodation %s of player %s", *p.AccommodationID, p.ID)
		}
		p.Accommodation = a
	}
	return nil
}

// teams converts team rows and resolves players and payments with batched reads.
func (g graph) teams(ctx context.Context, rows []*repository.Team) ([]*model.Team, error) {
	teams := make([]*model.Team, 0, len(rows))
	playerIDs := make([]string, 0)
	for _, row := range rows {
		teams = append(teams, toTeam(row))
		playerIDs = append(playerIDs, row.PlayerIDs...)
	}
	if len(teams) == 0 {
		return teams, nil
	}

	players, err := g.playersOf(ctx, playerIDs, false)
	if err != nil {
		return nil, err
	}
	byTeam := make(map[string][]*model.Player, len(teams))
	for _, p := range players {
		byTeam[p.TeamID] = append(byTeam[p.TeamID], p)
	}

	payments, err := g.payments.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list payments")
	}
	paymentByTeam := make(map[string]*model.Payment, len(payments))
	for _, pm := range payments {
		paymentByTeam[pm.TeamID] = toPayment(pm)
	}

	for _, team := range teams {
		team.Players = byTeam[team.ID]
		if team.Players == nil {
			team.Players = []*model.Player{}
		}
		if team.PaymentID != nil {
			team.Payment = paymentByTeam[team.ID]
		}
	}
	return teams, nil
}

// team resolves a single registered team.
func (g graph) team(ctx context.Context, row *repository.Team) (*model.Team, error) {
	team := toTeam(row)

	players, err := g.playersOf(ctx, row.PlayerIDs, false)
	if err != nil {
		return nil, err
	}
	team.Players = players

	if row.PaymentID != nil {
		pm, err := g.payments.Get(ctx, *row.PaymentID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, errors.Wrap(err, "get payment")
		}
		if pm != nil {
			team.Payment = toPayment(pm)
		}
	}
	return team, nil
}

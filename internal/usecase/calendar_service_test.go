package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/mlonzayes/dbr-fantasy/internal/infrastructure/repository/memory"
	matchmock "github.com/mlonzayes/dbr-fantasy/internal/mocks/domain/match"
	"github.com/stretchr/testify/mock"
)

func newCalendarFixture(t *testing.T) (*CalendarService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := NewCalendarService(store.Matches(), &sequenceIDGenerator{prefix: "match"}, nil)
	svc.now = func() time.Time { return fixtureNow }
	return svc, store
}

func TestCalendarService_CreateAndList(t *testing.T) {
	svc, _ := newCalendarFixture(t)
	ctx := t.Context()
	kickoff := time.Date(2026, time.March, 14, 15, 30, 0, 0, time.FixedZone("ART", -3*60*60))

	second, err := svc.Create(ctx, CreateMatchInput{
		Round: "Fecha 2", HomeTeam: "Duendes", AwayTeam: "Gimnasia y Esgrima", Stadium: "Cancha Duendes", Date: kickoff.AddDate(0, 0, 7),
	})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	first, err := svc.Create(ctx, CreateMatchInput{
		Round: " Fecha 1 ", HomeTeam: " Jockey Club ", AwayTeam: "Atlético del Rosario", Stadium: "Hipódromo", Date: kickoff,
	})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	if first.ID != "match-002" || first.Round != "Fecha 1" || first.HomeTeam != "Jockey Club" {
		t.Fatalf("unexpected match %+v", first)
	}
	if first.Date.Location() != time.UTC || !first.Date.Equal(kickoff) {
		t.Fatalf("expected date stored in UTC, got %v", first.Date)
	}
	if !first.CreatedAt.Equal(fixtureNow) {
		t.Fatalf("unexpected created at %v", first.CreatedAt)
	}

	items, err := svc.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || items[0].ID != first.ID || items[1].ID != second.ID {
		t.Fatalf("expected fixtures ordered by date, got %+v", items)
	}

	items, err = svc.List(ctx, "fecha 2")
	if err != nil {
		t.Fatalf("list round: %v", err)
	}
	if len(items) != 1 || items[0].ID != second.ID {
		t.Fatalf("expected only round 2, got %+v", items)
	}
}

func TestCalendarService_CreateRejectsIncompleteMatch(t *testing.T) {
	svc, store := newCalendarFixture(t)
	kickoff := time.Date(2026, time.March, 14, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input CreateMatchInput
	}{
		{name: "missing round", input: CreateMatchInput{HomeTeam: "A", AwayTeam: "B", Stadium: "S", Date: kickoff}},
		{name: "missing stadium", input: CreateMatchInput{Round: "1", HomeTeam: "A", AwayTeam: "B", Date: kickoff}},
		{name: "missing date", input: CreateMatchInput{Round: "1", HomeTeam: "A", AwayTeam: "B", Stadium: "S"}},
		{name: "same teams", input: CreateMatchInput{Round: "1", HomeTeam: "A", AwayTeam: "a", Stadium: "S", Date: kickoff}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(t.Context(), tc.input); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	items, err := store.Matches().List(t.Context())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected nothing stored, got %d", len(items))
	}
}

func TestCalendarService_Delete(t *testing.T) {
	svc, store := newCalendarFixture(t)
	ctx := t.Context()

	item, err := svc.Create(ctx, CreateMatchInput{
		Round: "Fecha 1", HomeTeam: "A", AwayTeam: "B", Stadium: "S", Date: fixtureNow.Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Matches().GetByID(ctx, item.ID); ok {
		t.Fatalf("expected match removed")
	}
	if err := svc.Delete(ctx, item.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if err := svc.Delete(ctx, " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank id, got %v", err)
	}
}

func TestCalendarService_PropagatesRepositoryErrors(t *testing.T) {
	repo := matchmock.NewRepository(t)
	offline := errors.New("connection refused")
	repo.On("List", mock.Anything).Return(nil, offline).Once()
	repo.On("Delete", mock.Anything, "m1").Return(false, offline).Once()

	svc := NewCalendarService(repo, staticIDGenerator{id: "m1"}, nil)

	if _, err := svc.List(t.Context(), ""); !errors.Is(err, offline) {
		t.Fatalf("expected list error, got %v", err)
	}
	err := svc.Delete(t.Context(), "m1")
	if !errors.Is(err, offline) || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected repository error, got %v", err)
	}
}

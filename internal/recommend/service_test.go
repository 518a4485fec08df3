package recommend

import (
	"context"
	"errors"
	"testing"

	"bibliomatch/internal/entity"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) Recommend(ctx context.Context, query string) (*Result, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Result), args.Error(1)
}

func (m *mockClient) TasteTest(ctx context.Context, titles []string) ([]entity.Book, error) {
	args := m.Called(ctx, titles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Book), args.Error(1)
}

func newTestService(client Client) *Service {
	return NewService(client, nil, zerolog.Nop())
}

func TestService_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("returns found book and related list in service order", func(t *testing.T) {
		m := new(mockClient)
		res := &Result{
			Found: entity.Book{Title: "The Hobbit", ISBN: "9780261102217"},
			Related: []entity.Book{
				{Title: "The Fellowship of the Ring"},
				{Title: "The Silmarillion"},
			},
		}
		m.On("Recommend", ctx, "The Hobbit").Return(res, nil)

		got, err := newTestService(m).Resolve(ctx, "The Hobbit")
		assert.NoError(t, err)
		assert.Equal(t, "The Hobbit", got.Found.Title)
		assert.Equal(t, []entity.Book{
			{Title: "The Fellowship of the Ring"},
			{Title: "The Silmarillion"},
		}, got.Related)
	})

	t.Run("trims whitespace before submitting", func(t *testing.T) {
		m := new(mockClient)
		m.On("Recommend", ctx, "Dune").Return(&Result{Found: entity.Book{Title: "Dune"}}, nil)

		_, err := newTestService(m).Resolve(ctx, "  Dune \n")
		assert.NoError(t, err)
		m.AssertExpectations(t)
	})

	t.Run("blank query never reaches the network", func(t *testing.T) {
		m := new(mockClient)

		_, err := newTestService(m).Resolve(ctx, "   \t ")
		assert.ErrorIs(t, err, ErrEmptyQuery)
		m.AssertNotCalled(t, "Recommend", mock.Anything, mock.Anything)
	})

	t.Run("propagates not found", func(t *testing.T) {
		m := new(mockClient)
		m.On("Recommend", ctx, "zzxqplonk9999").Return(nil, ErrNotFound)

		got, err := newTestService(m).Resolve(ctx, "zzxqplonk9999")
		assert.Nil(t, got)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("propagates transport failures", func(t *testing.T) {
		m := new(mockClient)
		m.On("Recommend", ctx, "Dune").Return(nil, TransportError{Err: errors.New("connection refused")})

		got, err := newTestService(m).Resolve(ctx, "Dune")
		assert.Nil(t, got)
		assert.True(t, IsTransport(err))
	})
}

func TestService_AddSeed(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the canonical title, not the raw input", func(t *testing.T) {
		m := new(mockClient)
		m.On("Recommend", ctx, "the hobit").Return(&Result{Found: entity.Book{Title: "The Hobbit"}}, nil)

		seeds, err := newTestService(m).AddSeed(ctx, SeedSet{}, "the hobit")
		assert.NoError(t, err)
		assert.Equal(t, []string{"The Hobbit"}, seeds.Titles())
	})

	t.Run("rejects a duplicate canonical title", func(t *testing.T) {
		m := new(mockClient)
		m.On("Recommend", ctx, "The Hobit").Return(&Result{Found: entity.Book{Title: "The Hobbit"}, Related: nil}, nil)

		svc := newTestService(m)
		seeds := NewSeedSet("The Hobbit")

		got, err := svc.AddSeed(ctx, seeds, "The Hobit")
		assert.ErrorIs(t, err, ErrDuplicateSeed)
		assert.Equal(t, seeds.Titles(), got.Titles())
	})

	t.Run("rejects a full set before touching the network", func(t *testing.T) {
		m := new(mockClient)
		seeds := NewSeedSet("a", "b", "c", "d", "e")

		got, err := newTestService(m).AddSeed(ctx, seeds, "f")
		assert.ErrorIs(t, err, ErrSeedSetFull)
		assert.Equal(t, seeds.Titles(), got.Titles())
		m.AssertNotCalled(t, "Recommend", mock.Anything, mock.Anything)
	})

	t.Run("never grows past five seeds", func(t *testing.T) {
		m := new(mockClient)
		for _, title := range []string{"a", "b", "c", "d", "e", "f"} {
			m.On("Recommend", ctx, title).Return(&Result{Found: entity.Book{Title: title}}, nil)
		}

		svc := newTestService(m)
		var seeds SeedSet
		var err error
		for _, title := range []string{"a", "b", "c", "d", "e"} {
			seeds, err = svc.AddSeed(ctx, seeds, title)
			assert.NoError(t, err)
		}

		got, err := svc.AddSeed(ctx, seeds, "f")
		assert.ErrorIs(t, err, ErrSeedSetFull)
		assert.Equal(t, MaxSeeds, got.Len())
	})

	t.Run("leaves the set unchanged on resolution failure", func(t *testing.T) {
		m := new(mockClient)
		m.On("Recommend", ctx, "ghost").Return(nil, ErrNotFound)

		seeds := NewSeedSet("Dune")
		got, err := newTestService(m).AddSeed(ctx, seeds, "ghost")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, seeds.Titles(), got.Titles())
	})
}

func TestService_Reveal(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a non-empty seed set", func(t *testing.T) {
		m := new(mockClient)

		_, err := newTestService(m).Reveal(ctx, SeedSet{})
		assert.ErrorIs(t, err, ErrNoSeeds)
		m.AssertNotCalled(t, "TasteTest", mock.Anything, mock.Anything)
	})

	t.Run("submits seeds in order and returns the list verbatim", func(t *testing.T) {
		m := new(mockClient)
		merged := []entity.Book{
			{Title: "Hyperion", Rating: 4.2},
			{Title: "Foundation", Rating: 4.0},
			{Title: "Hyperion", Rating: 4.2}, // service may repeat; no client-side dedup
		}
		m.On("TasteTest", ctx, []string{"Dune", "Neuromancer"}).Return(merged, nil)

		got, err := newTestService(m).Reveal(ctx, NewSeedSet("Dune", "Neuromancer"))
		assert.NoError(t, err)
		assert.Equal(t, merged, got)
	})

	t.Run("propagates transport failures with no partial results", func(t *testing.T) {
		m := new(mockClient)
		m.On("TasteTest", ctx, []string{"Dune"}).Return(nil, TransportError{Err: errors.New("boom")})

		got, err := newTestService(m).Reveal(ctx, NewSeedSet("Dune"))
		assert.Nil(t, got)
		assert.True(t, IsTransport(err))
	})
}

package lifecycle_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/content-gateway/pkg/lifecycle"
)

func badgedProvider(badges ...lifecycle.BadgeAssertion) *fakeProvider {
	return &fakeProvider{
		getFn: func(id string, query url.Values) (*lifecycle.ProviderResponse, error) {
			return okResponse(map[string]interface{}{
				"content": lifecycle.ContentItem{Identifier: id, BadgeAssertions: badges},
			}), nil
		},
	}
}

// systemUpdateBadges digs the badge list out of a recorded SystemUpdate body.
func systemUpdateBadges(t *testing.T, call providerCall) []lifecycle.BadgeAssertion {
	t.Helper()
	content := requestContent(call.body)
	require.NotNil(t, content)
	badges, ok := content["badgeAssertions"].([]lifecycle.BadgeAssertion)
	require.True(t, ok, "badgeAssertions must be the typed list")
	return badges
}

func TestAssignBadge(t *testing.T) {
	ctx := context.Background()
	assertion := lifecycle.BadgeAssertion{AssertionID: "as-1", BadgeID: "b-1", IssuerID: "is-1"}

	t.Run("missing assertion is rejected", func(t *testing.T) {
		svc := newTestService(t, lifecycle.WithProvider(&fakeProvider{}))
		_, err := svc.AssignBadge(ctx, lifecycle.BadgeRequest{ContentID: "do_123"})
		assert.ErrorIs(t, err, lifecycle.ErrValidation)
	})

	t.Run("duplicate triple is a conflict without an update", func(t *testing.T) {
		provider := badgedProvider(assertion)
		svc := newTestService(t, lifecycle.WithProvider(provider))

		result, err := svc.AssignBadge(ctx, lifecycle.BadgeRequest{ContentID: "do_123", Assertion: assertion})
		require.NoError(t, err)
		assert.Equal(t, lifecycle.BadgeConflict, result.Status)
		assert.Empty(t, provider.callsTo("SystemUpdate"))
	})

	t.Run("same assertion id with a different badge is not a duplicate", func(t *testing.T) {
		provider := badgedProvider(assertion)
		svc := newTestService(t, lifecycle.WithProvider(provider))

		other := lifecycle.BadgeAssertion{AssertionID: "as-1", BadgeID: "b-2", IssuerID: "is-1"}
		result, err := svc.AssignBadge(ctx, lifecycle.BadgeRequest{ContentID: "do_123", Assertion: other})
		require.NoError(t, err)
		assert.Equal(t, lifecycle.BadgeAssigned, result.Status)
	})

	t.Run("appends the new assertion", func(t *testing.T) {
		existing := lifecycle.BadgeAssertion{AssertionID: "as-0", BadgeID: "b-0", IssuerID: "is-0"}
		provider := badgedProvider(existing)
		svc := newTestService(t, lifecycle.WithProvider(provider))

		result, err := svc.AssignBadge(ctx, lifecycle.BadgeRequest{ContentID: "do_123", Assertion: assertion})
		require.NoError(t, err)
		assert.Equal(t, lifecycle.BadgeAssigned, result.Status)

		updates := provider.callsTo("SystemUpdate")
		require.Len(t, updates, 1)
		badges := systemUpdateBadges(t, updates[0])
		assert.Equal(t, []lifecycle.BadgeAssertion{existing, assertion}, badges)
	})
}

func TestRevokeBadge(t *testing.T) {
	ctx := context.Background()
	assertion := lifecycle.BadgeAssertion{AssertionID: "as-1", BadgeID: "b-1", IssuerID: "is-1"}

	t.Run("missing assertion id is rejected", func(t *testing.T) {
		svc := newTestService(t, lifecycle.WithProvider(&fakeProvider{}))
		_, err := svc.RevokeBadge(ctx, lifecycle.BadgeRequest{ContentID: "do_123"})
		assert.ErrorIs(t, err, lifecycle.ErrValidation)
	})

	t.Run("absent assertion is missing without an update", func(t *testing.T) {
		provider := badgedProvider()
		svc := newTestService(t, lifecycle.WithProvider(provider))

		result, err := svc.RevokeBadge(ctx, lifecycle.BadgeRequest{
			ContentID: "do_123",
			Assertion: lifecycle.BadgeAssertion{AssertionID: "as-unknown"},
		})
		require.NoError(t, err)
		assert.Equal(t, lifecycle.BadgeMissing, result.Status)
		assert.Empty(t, provider.callsTo("SystemUpdate"))
	})

	t.Run("removes only the matching assertion", func(t *testing.T) {
		other := lifecycle.BadgeAssertion{AssertionID: "as-2", BadgeID: "b-2", IssuerID: "is-2"}
		provider := badgedProvider(assertion, other)
		svc := newTestService(t, lifecycle.WithProvider(provider))

		result, err := svc.RevokeBadge(ctx, lifecycle.BadgeRequest{
			ContentID: "do_123",
			Assertion: lifecycle.BadgeAssertion{AssertionID: "as-1"},
		})
		require.NoError(t, err)
		assert.Equal(t, lifecycle.BadgeRevoked, result.Status)

		updates := provider.callsTo("SystemUpdate")
		require.Len(t, updates, 1)
		badges := systemUpdateBadges(t, updates[0])
		assert.Equal(t, []lifecycle.BadgeAssertion{other}, badges)
	})

	t.Run("revoking the last assertion writes an empty list", func(t *testing.T) {
		provider := badgedProvider(assertion)
		svc := newTestService(t, lifecycle.WithProvider(provider))

		result, err := svc.RevokeBadge(ctx, lifecycle.BadgeRequest{
			ContentID: "do_123",
			Assertion: lifecycle.BadgeAssertion{AssertionID: "as-1"},
		})
		require.NoError(t, err)
		assert.Equal(t, lifecycle.BadgeRevoked, result.Status)

		updates := provider.callsTo("SystemUpdate")
		require.Len(t, updates, 1)
		badges := systemUpdateBadges(t, updates[0])
		assert.NotNil(t, badges)
		assert.Empty(t, badges)
	})
}

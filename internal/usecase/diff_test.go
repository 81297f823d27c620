package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-guest-sync/internal/entity"
)

func existingStay(identityID, checkIn string) entity.TargetStayRecord {
	return entity.TargetStayRecord{
		ID: "lead-1",
		StayRecord: entity.StayRecord{
			IdentityID: identityID,
			Email:      "j@x.com",
			FirstName:  "John",
			LastName:   "Doe",
			Phone:      "+5411555",
			Language:   LanguageEnglish,
			Address:    entity.Address{City: "Mendoza", Country: "Argentina"},
			CheckIn:    *day(checkIn),
			CheckOut:   day("2026-03-05"),
			Flags:      entity.DefaultEngagementFlags(),
		},
	}
}

func proposedFrom(existing entity.TargetStayRecord) entity.ProposedStayRecord {
	p := entity.ProposedStayRecord{SourceID: "r1", StayRecord: existing.StayRecord}
	p.Flags = entity.EngagementFlags{}
	return p
}

func TestDiffStay_NoChanges(t *testing.T) {
	existing := existingStay("c1", "2026-03-01")

	changes, warnings, err := DiffStay(existing, proposedFrom(existing))

	require.NoError(t, err)
	assert.Empty(t, changes)
	assert.Empty(t, warnings)
}

func TestDiffStay_OnlyChangedFields(t *testing.T) {
	existing := existingStay("c1", "2026-03-01")
	proposed := proposedFrom(existing)
	proposed.Phone = "+5411999"
	proposed.CheckOut = day("2026-03-06")

	changes, _, err := DiffStay(existing, proposed)

	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, entity.FieldChange{Field: "phone", Label: "Phone", FromValue: "+5411555", ToValue: "+5411999"}, changes[0])
	assert.Equal(t, "check_out", changes[1].Field)
	assert.Equal(t, "2026-03-06", changes[1].ToValue)
}

func TestDiffStay_EmptyNeverBlanks(t *testing.T) {
	existing := existingStay("c1", "2026-03-01")
	proposed := proposedFrom(existing)
	proposed.Phone = ""
	proposed.Address = entity.Address{}
	proposed.CheckOut = nil

	changes, _, err := DiffStay(existing, proposed)

	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestDiffStay_FlagResetIsAdvisory(t *testing.T) {
	existing := existingStay("c1", "2026-03-01")
	existing.Flags[entity.FlagWelcomeCall] = true
	proposed := proposedFrom(existing)
	proposed.Flags = entity.EngagementFlags{
		entity.FlagWelcomeCall:    false,
		entity.FlagMarketingOptIn: true,
	}

	changes, warnings, err := DiffStay(existing, proposed)

	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.True(t, changes[0].IsBooleanFlag)
	assert.Equal(t, "marketing_opt_in", changes[0].Field)
	assert.Equal(t, "welcome_call", changes[1].Field)
	assert.Equal(t, "false", changes[1].ToValue)
	assert.Equal(t, []string{"Welcome Call would be reset from true to false"}, warnings)
}

func TestDiffStay_KeyMismatchIsInvariantViolation(t *testing.T) {
	existing := existingStay("c1", "2026-03-01")
	proposed := proposedFrom(existingStay("c1", "2026-03-02"))

	_, _, err := DiffStay(existing, proposed)

	assert.ErrorIs(t, err, entity.ErrInvariantViolation)
}

// Cenário C: estadia existente sem cidade, proposta com cidade.
func TestDiffStay_ScenarioC(t *testing.T) {
	existing := existingStay("c1", "2026-03-01")
	existing.Address.City = ""
	proposed := proposedFrom(existingStay("c1", "2026-03-01"))

	changes, _, err := DiffStay(existing, proposed)

	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "city", changes[0].Field)
	assert.Equal(t, "", changes[0].FromValue)
	assert.Equal(t, "Mendoza", changes[0].ToValue)
}

func TestDiffEngine_SupersededWithinRun(t *testing.T) {
	crm := newFakeCRM()
	engine := NewDiffEngine(crm, 0)

	first := guest("r1", "John", "Doe", "j@x.com", "2026-03-01")
	second := guest("r2", "John", "Doe", "j@x.com", "2026-03-01")
	second.Phone = "+5411999"

	res, err := engine.Compute(context.Background(), []resolvedGuest{{Record: first}, {Record: second}})

	require.NoError(t, err)
	require.Len(t, res.Creates, 1)
	assert.Equal(t, "r2", res.Creates[0].SourceID, "o último registro da mesma estadia vence")
	require.Len(t, res.Outcomes, 2)
	assert.Equal(t, entity.ActionNoOp, res.Outcomes[0].Action)
	assert.Contains(t, res.Outcomes[0].Detail, "superseded by r2")
}

func TestDiffEngine_CheckInLessIsIdentityOnly(t *testing.T) {
	crm := newFakeCRM()
	engine := NewDiffEngine(crm, 0)

	res, err := engine.Compute(context.Background(), []resolvedGuest{
		{IdentityID: "c1", Record: guest("r1", "John", "Doe", "j@x.com", "")},
		{Record: guest("r2", "Ana", "Souza", "ana@x.com", "")},
	})

	require.NoError(t, err)
	assert.Empty(t, res.Creates)
	assert.Empty(t, res.Updates)
	require.Len(t, res.Outcomes, 1)
	assert.Equal(t, "no check-in date, identity only", res.Outcomes[0].Detail)
	assert.Empty(t, crm.stayLookups)
}

func TestDiffEngine_BatchesStayLookups(t *testing.T) {
	crm := newFakeCRM()
	engine := NewDiffEngine(crm, 2)

	var guests []resolvedGuest
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("c%d", i)
		guests = append(guests, resolvedGuest{IdentityID: id, Record: guest("r"+id, "John", "Doe", id+"@x.com", "2026-03-01")})
	}

	res, err := engine.Compute(context.Background(), guests)

	require.NoError(t, err)
	assert.Len(t, crm.stayLookups, 3)
	assert.Len(t, res.Creates, 5)
}

func TestDiffEngine_CRMKeyMismatchAborts(t *testing.T) {
	crm := newFakeCRM()
	stay := existingStay("c1", "2026-03-01")
	crm.stays[entity.StayKey{IdentityID: "c1", CheckIn: "2026-01-01"}] = stay
	engine := NewDiffEngine(crm, 0)

	_, err := engine.Compute(context.Background(), []resolvedGuest{
		{IdentityID: "c1", Record: guest("r1", "John", "Doe", "j@x.com", "2026-03-01")},
	})

	assert.ErrorIs(t, err, entity.ErrInvariantViolation)
}

func TestDiffEngine_LookupFailureIsTechnical(t *testing.T) {
	crm := newFakeCRM()
	crm.failOn = "FindStaysByIdentity"
	engine := NewDiffEngine(crm, 0)

	_, err := engine.Compute(context.Background(), []resolvedGuest{
		{IdentityID: "c1", Record: guest("r1", "John", "Doe", "j@x.com", "2026-03-01")},
	})

	assert.True(t, IsTechnicalError(err))
	assert.ErrorIs(t, err, errCRMDown)
}

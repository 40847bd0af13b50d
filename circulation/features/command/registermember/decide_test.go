package registermember_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/registermember"
	"github.com/AntonStoeckl/library-circulation/testutil/helper"
)

var now = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

func buildCommand(memberID, email string) registermember.Command {
	return registermember.BuildCommand(memberID, "Grace Hopper", email, "555-0199", "1 Navy Yard", "lib-1", now)
}

func Test_Decide_RegistersNewMember(t *testing.T) {
	// act
	result := registermember.Decide(core.DomainEvents{}, buildCommand("M010", "grace@example.com"))

	// assert
	require.Len(t, result.Events, 1)
	member, ok := result.Events[0].(core.MemberRegistered)
	require.True(t, ok)
	assert.Equal(t, "M010", member.MemberID)
	assert.Equal(t, "grace@example.com", member.Email)
}

func Test_Decide_DuplicateMember(t *testing.T) {
	// arrange
	history := core.DomainEvents{helper.FixtureMemberRegistered("M010", now)}

	// act
	result := registermember.Decide(history, buildCommand("M010", "grace@example.com"))

	// assert
	assert.ErrorIs(t, result.HasError(), core.ErrDuplicateMember)
	require.Len(t, result.Events, 1)
	assert.Equal(t, core.RegisteringMemberFailedEventType, result.Events[0].IsEventType())
}

func Test_Command_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		command registermember.Command
		valid   bool
	}{
		{name: "complete", command: buildCommand("M010", "grace@example.com"), valid: true},
		{name: "blank id", command: buildCommand("  ", "grace@example.com")},
		{name: "email without at", command: buildCommand("M010", "grace.example.com")},
		{name: "email without dot in domain", command: buildCommand("M010", "grace@example")},
		{name: "email with space", command: buildCommand("M010", "grace @example.com")},
		{
			name:    "blank address",
			command: registermember.BuildCommand("M010", "Grace", "grace@example.com", "555", " ", "lib-1", now),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			err := tc.command.Validate()

			// assert
			if tc.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, core.ErrValidation)
		})
	}
}

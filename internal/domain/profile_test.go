package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func sampleProfile() Profile {
	return Profile{
		FirstName:       "Anna",
		LastName:        "Petrova",
		BirthDate:       date(2001, time.March, 4),
		Gender:          GenderFemale,
		City:            "Kazan",
		Faculty:         "Physics",
		Course:          intPtr(2),
		Group:           "P-21",
		Phone:           "+70000000000",
		PhonePrivacy:    PrivacyVolunteers,
		TelegramPrivacy: PrivacyPublic,
	}
}

func TestDiffProfile(t *testing.T) {
	current := sampleProfile()

	t.Run("no changes", func(t *testing.T) {
		assert.Empty(t, DiffProfile(current, current))
	})

	t.Run("single field", func(t *testing.T) {
		proposed := current
		proposed.FirstName = "X"

		changes := DiffProfile(current, proposed)
		require.Len(t, changes, 1)
		assert.Equal(t, FieldFirstName, changes[0].Field)
		assert.Equal(t, "Anna", changes[0].Old.String())
		assert.Equal(t, "X", changes[0].New.String())
	})

	t.Run("nullable fields", func(t *testing.T) {
		proposed := current
		proposed.BirthDate = nil
		proposed.Course = intPtr(3)

		changes := DiffProfile(current, proposed)
		assert.ElementsMatch(t, []ProfileField{FieldBirthDate, FieldCourse}, changes.Fields())
	})

	t.Run("same date different clock", func(t *testing.T) {
		proposed := current
		d := time.Date(2001, time.March, 4, 15, 30, 0, 0, time.UTC)
		proposed.BirthDate = &d

		assert.Empty(t, DiffProfile(current, proposed))
	})
}

func TestProfileChanges_ApplyTo_OnlyTouchesDiff(t *testing.T) {
	current := sampleProfile()
	proposed := current
	proposed.FirstName = "X"
	changes := DiffProfile(current, proposed)

	// A concurrent edit that is not part of the diff must survive.
	live := current
	live.City = "Moscow"
	changes.ApplyTo(&live)

	assert.Equal(t, "X", live.FirstName)
	assert.Equal(t, "Moscow", live.City)
	assert.Equal(t, current.LastName, live.LastName)
	assert.Equal(t, current.Course, live.Course)
}

func TestProfileChanges_RoundTrip(t *testing.T) {
	current := sampleProfile()
	proposed := current
	proposed.BirthDate = date(2000, time.January, 1)
	proposed.Course = nil
	proposed.Gender = GenderMale

	changes := DiffProfile(current, proposed)
	raw, err := changes.Encode()
	require.NoError(t, err)

	decoded := DecodeProfileChanges(raw)
	require.Len(t, decoded, len(changes))

	applied := current
	decoded.ApplyTo(&applied)
	assert.Equal(t, proposed, applied)
}

func TestDecodeProfileChanges_Coercion(t *testing.T) {
	raw := `[
		{"field":"course","old":null,"new":"4"},
		{"field":"birth_date","old":"","new":"1999-12-31"},
		{"field":"city","old":null,"new":"Ufa"}
	]`

	changes := DecodeProfileChanges(raw)
	require.Len(t, changes, 3)

	var p Profile
	changes.ApplyTo(&p)
	require.NotNil(t, p.Course)
	assert.Equal(t, 4, *p.Course)
	require.NotNil(t, p.BirthDate)
	assert.Equal(t, "1999-12-31", p.BirthDate.Format(DateLayout))
	assert.Equal(t, "Ufa", p.City)

	emptyCourse := DecodeProfileChanges(`[{"field":"course","old":2,"new":""}]`)
	require.Len(t, emptyCourse, 1)
	p.Course = intPtr(2)
	emptyCourse.ApplyTo(&p)
	assert.Nil(t, p.Course)
}

func TestDecodeProfileChanges_MalformedIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{{{`},
		{"object instead of list", `{"first_name":"X"}`},
		{"unknown field", `[{"field":"first_name","new":"X"},{"field":"is_superuser","new":true}]`},
		{"wrong kind", `[{"field":"course","new":"two"}]`},
		{"bad date", `[{"field":"birth_date","new":"04.03.2001"}]`},
		{"text as number", `[{"field":"city","new":5}]`},
		{"duplicate field", `[{"field":"city","new":"A"},{"field":"city","new":"B"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, DecodeProfileChanges(tt.raw))
		})
	}

	assert.Nil(t, DecodeProfileChanges(""))
}

func TestProfileChanges_WithCurrent(t *testing.T) {
	current := sampleProfile()
	proposed := current
	proposed.City = "Ufa"
	changes := DiffProfile(current, proposed)

	live := current
	live.City = "Moscow"
	refreshed := changes.WithCurrent(live)

	require.Len(t, refreshed, 1)
	assert.Equal(t, "Moscow", refreshed[0].Old.String())
	assert.Equal(t, "Kazan", changes[0].Old.String())
}

func TestFieldValue_MarshalJSON(t *testing.T) {
	b, err := NumberValue(intPtr(3)).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "3", string(b))

	b, err = DateValue(nil).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	b, err = DateValue(date(2020, time.May, 1)).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2020-05-01"`, string(b))
}

func TestUser_FullName(t *testing.T) {
	u := User{Username: "anna", Profile: Profile{FirstName: "Anna", LastName: "Petrova"}}
	assert.Equal(t, "Petrova Anna", u.FullName())
	assert.Equal(t, "anna", User{Username: "anna"}.DisplayName())
}

func TestNewPage(t *testing.T) {
	assert.Equal(t, Page{Number: 1, Limit: DefaultPageLimit}, NewPage(0, 0))
	assert.Equal(t, Page{Number: 3, Limit: MaxPageLimit}, NewPage(3, 1000))
	assert.Equal(t, 20, NewPage(2, 20).Offset())
}

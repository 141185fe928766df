package request

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aya-platform/volunteer-hub/internal/domain"
)

func TestSignupRequest_Validate(t *testing.T) {
	valid := SignupRequest{
		Username:        "anna_k",
		FirstName:       "Anna",
		LastName:        "Karenina",
		Email:           "anna@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	}

	tests := []struct {
		name    string
		mutate  func(r *SignupRequest)
		wantErr bool
	}{
		{"valid", func(r *SignupRequest) {}, false},
		{"short password", func(r *SignupRequest) { r.Password, r.ConfirmPassword = "abc123", "abc123" }, true},
		{"no digit", func(r *SignupRequest) { r.Password, r.ConfirmPassword = "abcdefghi", "abcdefghi" }, true},
		{"no letter", func(r *SignupRequest) { r.Password, r.ConfirmPassword = "123456789", "123456789" }, true},
		{"mismatch", func(r *SignupRequest) { r.ConfirmPassword = "secret124" }, true},
		{"bad email", func(r *SignupRequest) { r.Email = "anna" }, true},
		{"bad username", func(r *SignupRequest) { r.Username = "a b" }, true},
		{"missing name", func(r *SignupRequest) { r.FirstName = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSignupRequest_User(t *testing.T) {
	req := SignupRequest{Username: " anna ", Email: "Anna@Example.com", FirstName: "Anna", LastName: "K", Password: "secret123"}

	u := req.User()

	assert.Equal(t, "anna", u.Username)
	assert.Equal(t, "anna@example.com", u.Email)
	assert.Equal(t, domain.PrivacyPrivate, u.PhonePrivacy)
}

func TestProfileRequest_EmptyNullablesBecomeNull(t *testing.T) {
	var req ProfileRequest
	body := `{"first_name":"Anna","last_name":"K","birth_date":"","course":""}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	require.NoError(t, req.Validate())

	p := req.Profile()

	assert.Nil(t, p.BirthDate)
	assert.Nil(t, p.Course)
	assert.Equal(t, domain.PrivacyPrivate, p.PhonePrivacy)
}

func TestProfileRequest_TypedValues(t *testing.T) {
	var req ProfileRequest
	body := `{"first_name":"Anna","last_name":"K","birth_date":"2001-04-12","course":"3","telegram_privacy":"public"}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	require.NoError(t, req.Validate())

	p := req.Profile()

	require.NotNil(t, p.BirthDate)
	assert.Equal(t, "2001-04-12", p.BirthDate.Format(domain.DateLayout))
	require.NotNil(t, p.Course)
	assert.Equal(t, 3, *p.Course)
	assert.Equal(t, domain.PrivacyPublic, p.TelegramPrivacy)
}

func TestProfileRequest_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"course out of range", `{"first_name":"A","last_name":"B","course":11}`},
		{"unknown privacy", `{"first_name":"A","last_name":"B","phone_privacy":"friends"}`},
		{"bad gender", `{"first_name":"A","last_name":"B","gender":"X"}`},
		{"bad telegram", `{"first_name":"A","last_name":"B","telegram":"a b"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req ProfileRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Error(t, req.Validate())
		})
	}

	var req ProfileRequest
	assert.Error(t, json.Unmarshal([]byte(`{"birth_date":"12.04.2001"}`), &req))
	assert.Error(t, json.Unmarshal([]byte(`{"course":"third"}`), &req))
}

func TestNullableInt_UnmarshalParam(t *testing.T) {
	var n NullableInt
	require.NoError(t, n.UnmarshalParam(" 4 "))
	require.NotNil(t, n.Value)
	assert.Equal(t, 4, *n.Value)

	require.NoError(t, n.UnmarshalParam(""))
	assert.Nil(t, n.Value)
}

func TestEventRequest_Validate(t *testing.T) {
	var req EventRequest
	body := `{"title":"Cleanup","start_time":"2026-05-01T10:00:00Z","end_time":"2026-05-01T09:00:00Z"}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	assert.ErrorIs(t, req.Validate(), errEndBeforeStartTime)

	body = `{"title":"Cleanup","start_time":"2026-05-01T10:00:00Z","end_time":"2026-05-01T12:00:00Z","max_participants":""}`
	req = EventRequest{}
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	assert.NoError(t, req.Validate())
	assert.Nil(t, req.MaxParticipants.Value)
}

func TestReportRequest_Validate(t *testing.T) {
	hero := uint(4)
	req := ReportRequest{HeroID: &hero}
	assert.ErrorIs(t, req.Validate(), errHeroRoleRequired)

	req.HeroRole = "Photographer"
	assert.NoError(t, req.Validate())

	req.VideoURL = "not a url"
	assert.Error(t, req.Validate())
}

func TestActivityPeriodRequest_Validate(t *testing.T) {
	var req ActivityPeriodRequest
	require.NoError(t, json.Unmarshal([]byte(`{"start_date":"","description":"x"}`), &req))
	assert.Error(t, req.Validate())

	req = ActivityPeriodRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"start_date":"2024-09-01","end_date":"2024-08-01"}`), &req))
	assert.ErrorIs(t, req.Validate(), errEndBeforeStart)

	req = ActivityPeriodRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"start_date":"2024-09-01","end_date":null}`), &req))
	require.NoError(t, req.Validate())
	p := req.Period(9)
	assert.Equal(t, uint(9), p.UserID)
	assert.Nil(t, p.EndDate)
}

func TestRoleRequest_Validate(t *testing.T) {
	assert.NoError(t, (&RoleRequest{Role: "moderator"}).Validate())
	assert.Error(t, (&RoleRequest{Role: "king"}).Validate())
	assert.Error(t, (&RoleRequest{}).Validate())
}

func TestDirectoryQuery(t *testing.T) {
	q := DirectoryQuery{Query: " anna ", Status: domain.StatusLeader, Direction: 2}
	require.NoError(t, q.Validate())

	f := q.Filter()
	assert.Equal(t, "anna", f.Query)
	assert.Equal(t, uint(2), f.DirectionID)

	q.Status = "sleeping"
	assert.Error(t, q.Validate())
}

func TestPageQuery(t *testing.T) {
	q := PageQuery{Number: 0, Limit: 1000}
	assert.Equal(t, domain.Page{Number: 1, Limit: domain.MaxPageLimit}, q.Page())
}

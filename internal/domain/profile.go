package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

const DateLayout = "2006-01-02"

// ProfileField names a moderated profile attribute.
type ProfileField string

const (
	FieldFirstName       ProfileField = "first_name"
	FieldLastName        ProfileField = "last_name"
	FieldPatronymic      ProfileField = "patronymic"
	FieldBirthDate       ProfileField = "birth_date"
	FieldGender          ProfileField = "gender"
	FieldCity            ProfileField = "city"
	FieldAboutMe         ProfileField = "about_me"
	FieldJobTitle        ProfileField = "job_title"
	FieldOfficeLocation  ProfileField = "office_location"
	FieldFaculty         ProfileField = "faculty"
	FieldCourse          ProfileField = "course"
	FieldGroup           ProfileField = "group"
	FieldPhone           ProfileField = "phone"
	FieldTelegram        ProfileField = "telegram"
	FieldPhonePrivacy    ProfileField = "phone_privacy"
	FieldTelegramPrivacy ProfileField = "telegram_privacy"
)

type valueKind int

const (
	kindText valueKind = iota
	kindDate
	kindNumber
)

// FieldValue holds one typed profile value. Date and Number are nil when the
// field is empty.
type FieldValue struct {
	kind   valueKind
	Text   string
	Date   *time.Time
	Number *int
}

func TextValue(s string) FieldValue {
	return FieldValue{kind: kindText, Text: s}
}

func DateValue(t *time.Time) FieldValue {
	if t == nil {
		return FieldValue{kind: kindDate}
	}
	y, m, day := t.UTC().Date()
	d := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	return FieldValue{kind: kindDate, Date: &d}
}

func NumberValue(n *int) FieldValue {
	if n == nil {
		return FieldValue{kind: kindNumber}
	}
	v := *n
	return FieldValue{kind: kindNumber, Number: &v}
}

func (v FieldValue) IsNull() bool {
	switch v.kind {
	case kindDate:
		return v.Date == nil
	case kindNumber:
		return v.Number == nil
	default:
		return false
	}
}

// Equal compares two values of the same field.
func (v FieldValue) Equal(o FieldValue) bool {
	switch v.kind {
	case kindDate:
		if v.Date == nil || o.Date == nil {
			return v.Date == nil && o.Date == nil
		}
		return v.Date.Equal(*o.Date)
	case kindNumber:
		if v.Number == nil || o.Number == nil {
			return v.Number == nil && o.Number == nil
		}
		return *v.Number == *o.Number
	default:
		return v.Text == o.Text
	}
}

func (v FieldValue) String() string {
	switch v.kind {
	case kindDate:
		if v.Date == nil {
			return ""
		}
		return v.Date.Format(DateLayout)
	case kindNumber:
		if v.Number == nil {
			return ""
		}
		return strconv.Itoa(*v.Number)
	default:
		return v.Text
	}
}

// MarshalJSON writes the bare value: a string, an ISO date, a number or null.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch {
	case v.IsNull():
		return []byte("null"), nil
	case v.kind == kindNumber:
		return json.Marshal(*v.Number)
	default:
		return json.Marshal(v.String())
	}
}

var errValueKind = errors.New("value does not match field type")

func parseFieldValue(kind valueKind, raw json.RawMessage) (FieldValue, error) {
	raw = bytes.TrimSpace(raw)
	isNull := len(raw) == 0 || bytes.Equal(raw, []byte("null"))

	switch kind {
	case kindText:
		if isNull {
			return TextValue(""), nil
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return FieldValue{}, errValueKind
		}
		return TextValue(s), nil

	case kindDate:
		if isNull {
			return DateValue(nil), nil
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return FieldValue{}, errValueKind
		}
		if s == "" {
			return DateValue(nil), nil
		}
		t, err := time.Parse(DateLayout, s)
		if err != nil {
			return FieldValue{}, errValueKind
		}
		return DateValue(&t), nil

	default:
		if isNull {
			return NumberValue(nil), nil
		}
		var n int
		if err := json.Unmarshal(raw, &n); err == nil {
			return NumberValue(&n), nil
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return FieldValue{}, errValueKind
		}
		if s == "" {
			return NumberValue(nil), nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return FieldValue{}, errValueKind
		}
		return NumberValue(&n), nil
	}
}

type fieldAccessor struct {
	kind valueKind
	get  func(p *Profile) FieldValue
	set  func(p *Profile, v FieldValue)
}

func textField[T ~string](ref func(p *Profile) *T) fieldAccessor {
	return fieldAccessor{
		kind: kindText,
		get:  func(p *Profile) FieldValue { return TextValue(string(*ref(p))) },
		set:  func(p *Profile, v FieldValue) { *ref(p) = T(v.Text) },
	}
}

// profileFields lists the moderated fields in display order.
var profileFields = []ProfileField{
	FieldLastName, FieldFirstName, FieldPatronymic, FieldBirthDate, FieldGender,
	FieldCity, FieldAboutMe, FieldJobTitle, FieldOfficeLocation, FieldFaculty,
	FieldCourse, FieldGroup, FieldPhone, FieldTelegram, FieldPhonePrivacy, FieldTelegramPrivacy,
}

var profileAccessors = map[ProfileField]fieldAccessor{
	FieldFirstName:       textField(func(p *Profile) *string { return &p.FirstName }),
	FieldLastName:        textField(func(p *Profile) *string { return &p.LastName }),
	FieldPatronymic:      textField(func(p *Profile) *string { return &p.Patronymic }),
	FieldGender:          textField(func(p *Profile) *Gender { return &p.Gender }),
	FieldCity:            textField(func(p *Profile) *string { return &p.City }),
	FieldAboutMe:         textField(func(p *Profile) *string { return &p.AboutMe }),
	FieldJobTitle:        textField(func(p *Profile) *string { return &p.JobTitle }),
	FieldOfficeLocation:  textField(func(p *Profile) *string { return &p.OfficeLocation }),
	FieldFaculty:         textField(func(p *Profile) *string { return &p.Faculty }),
	FieldGroup:           textField(func(p *Profile) *string { return &p.Group }),
	FieldPhone:           textField(func(p *Profile) *string { return &p.Phone }),
	FieldTelegram:        textField(func(p *Profile) *string { return &p.Telegram }),
	FieldPhonePrivacy:    textField(func(p *Profile) *Privacy { return &p.PhonePrivacy }),
	FieldTelegramPrivacy: textField(func(p *Profile) *Privacy { return &p.TelegramPrivacy }),
	FieldBirthDate: {
		kind: kindDate,
		get:  func(p *Profile) FieldValue { return DateValue(p.BirthDate) },
		set: func(p *Profile, v FieldValue) {
			if v.Date == nil {
				p.BirthDate = nil
				return
			}
			d := *v.Date
			p.BirthDate = &d
		},
	},
	FieldCourse: {
		kind: kindNumber,
		get:  func(p *Profile) FieldValue { return NumberValue(p.Course) },
		set: func(p *Profile, v FieldValue) {
			if v.Number == nil {
				p.Course = nil
				return
			}
			n := *v.Number
			p.Course = &n
		},
	},
}

func ProfileFields() []ProfileField {
	out := make([]ProfileField, len(profileFields))
	copy(out, profileFields)
	return out
}

func (f ProfileField) Valid() bool {
	_, ok := profileAccessors[f]
	return ok
}

// Get reads field f from p.
func (p Profile) Get(f ProfileField) (FieldValue, bool) {
	acc, ok := profileAccessors[f]
	if !ok {
		return FieldValue{}, false
	}
	return acc.get(&p), true
}

// FieldChange is one proposed edit of a moderated field.
type FieldChange struct {
	Field ProfileField `json:"field"`
	Old   FieldValue   `json:"old"`
	New   FieldValue   `json:"new"`
}

func (c *FieldChange) UnmarshalJSON(data []byte) error {
	var raw struct {
		Field ProfileField    `json:"field"`
		Old   json.RawMessage `json:"old"`
		New   json.RawMessage `json:"new"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	acc, ok := profileAccessors[raw.Field]
	if !ok {
		return fmt.Errorf("unknown profile field %q", raw.Field)
	}

	oldValue, err := parseFieldValue(acc.kind, raw.Old)
	if err != nil {
		return fmt.Errorf("%s.old: %w", raw.Field, err)
	}
	newValue, err := parseFieldValue(acc.kind, raw.New)
	if err != nil {
		return fmt.Errorf("%s.new: %w", raw.Field, err)
	}

	*c = FieldChange{Field: raw.Field, Old: oldValue, New: newValue}

	return nil
}

// ProfileChanges is a field-level diff awaiting moderation. Each field
// appears at most once.
type ProfileChanges []FieldChange

// DiffProfile lists every moderated field whose value differs between
// current and proposed.
func DiffProfile(current, proposed Profile) ProfileChanges {
	var changes ProfileChanges
	for _, f := range profileFields {
		acc := profileAccessors[f]
		oldValue, newValue := acc.get(&current), acc.get(&proposed)
		if !oldValue.Equal(newValue) {
			changes = append(changes, FieldChange{Field: f, Old: oldValue, New: newValue})
		}
	}
	return changes
}

// ApplyTo writes the new values onto p. Fields outside the diff are left as
// they are.
func (c ProfileChanges) ApplyTo(p *Profile) {
	for _, ch := range c {
		if acc, ok := profileAccessors[ch.Field]; ok {
			acc.set(p, ch.New)
		}
	}
}

// WithCurrent returns a copy whose Old values are read from p.
func (c ProfileChanges) WithCurrent(p Profile) ProfileChanges {
	out := make(ProfileChanges, 0, len(c))
	for _, ch := range c {
		if acc, ok := profileAccessors[ch.Field]; ok {
			ch.Old = acc.get(&p)
		}
		out = append(out, ch)
	}
	return out
}

func (c ProfileChanges) Fields() []ProfileField {
	out := make([]ProfileField, 0, len(c))
	for _, ch := range c {
		out = append(out, ch.Field)
	}
	return out
}

func (c ProfileChanges) Encode() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeProfileChanges parses a stored diff. Anything malformed yields an
// empty diff so that nothing is ever partially applied.
func DecodeProfileChanges(raw string) ProfileChanges {
	if raw == "" {
		return nil
	}

	var changes ProfileChanges
	if err := json.Unmarshal([]byte(raw), &changes); err != nil {
		return nil
	}

	seen := make(map[ProfileField]bool, len(changes))
	for _, ch := range changes {
		if seen[ch.Field] {
			return nil
		}
		seen[ch.Field] = true
	}

	return changes
}

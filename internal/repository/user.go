package repository

import (
	"context"
	"fmt"

	"github.com/aya-platform/volunteer-hub/internal/domain"
	"github.com/aya-platform/volunteer-hub/internal/repository/dao"
)

var (
	ErrUserEmailExists        = dao.ErrUserEmailExists
	ErrUsernameExists         = dao.ErrUsernameExists
	ErrUserNotFound           = dao.ErrUserNotFound
	ErrActivityPeriodNotFound = dao.ErrActivityPeriodNotFound
	ErrDirectionNotFound      = dao.ErrDirectionNotFound
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	FindByID(ctx context.Context, id uint) (dao.User, error)
	FindByIDs(ctx context.Context, ids []uint) ([]dao.User, error)
	FindByUsername(ctx context.Context, username string) (dao.User, error)
	FindByEmail(ctx context.Context, email string) (dao.User, error)
	FindStaffIDs(ctx context.Context, roles []string) ([]uint, error)
	FindUnapproved(ctx context.Context) ([]dao.User, error)
	FindWithPendingChanges(ctx context.Context) ([]dao.User, error)
	FindAll(ctx context.Context) ([]dao.User, error)
	FindApprovedByRoles(ctx context.Context, roles []string) ([]dao.User, error)
	FindDirectory(ctx context.Context, f dao.UserFilter) ([]dao.User, error)
	DistinctValues(ctx context.Context, column string) ([]string, error)
	DistinctCourses(ctx context.Context) ([]int, error)
	Count(ctx context.Context) (int64, error)
	UpdateColumns(ctx context.Context, id uint, columns map[string]any) error
	UpdateAccount(ctx context.Context, id uint, columns map[string]any, directionIDs []uint) error
	UpdateRole(ctx context.Context, id uint, role, demoteTo string) ([]uint, error)
	Delete(ctx context.Context, id uint) error
	InsertActivityPeriod(ctx context.Context, p dao.ActivityPeriod) (dao.ActivityPeriod, error)
	FindActivityPeriods(ctx context.Context, userID uint) ([]dao.ActivityPeriod, error)
	FindActivityPeriod(ctx context.Context, id uint) (dao.ActivityPeriod, error)
	DeleteActivityPeriod(ctx context.Context, id uint) error
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

// AccountUpdate is a direct edit of a user by staff. Nil DirectionIDs leaves
// memberships untouched.
type AccountUpdate struct {
	Username     string
	Email        string
	Profile      domain.Profile
	DirectionIDs []uint
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	created, err := r.dao.Insert(ctx, userToDAO(user))
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return userToDomain(created), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return userToDomain(found), nil
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.User, error) {
	found, err := r.dao.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByIDs -> %w", err)
	}

	return usersToDomain(found), nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	found, err := r.dao.FindByUsername(ctx, username)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByUsername -> %w", err)
	}

	return userToDomain(found), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return userToDomain(found), nil
}

func (r *UserRepository) FindStaffIDs(ctx context.Context, roles []domain.Role) ([]uint, error) {
	ids, err := r.dao.FindStaffIDs(ctx, rolesToStrings(roles))
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindStaffIDs -> %w", err)
	}

	return ids, nil
}

func (r *UserRepository) FindUnapproved(ctx context.Context) ([]domain.User, error) {
	found, err := r.dao.FindUnapproved(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindUnapproved -> %w", err)
	}

	return usersToDomain(found), nil
}

func (r *UserRepository) FindWithPendingChanges(ctx context.Context) ([]domain.User, error) {
	found, err := r.dao.FindWithPendingChanges(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindWithPendingChanges -> %w", err)
	}

	users := make([]domain.User, 0, len(found))
	for _, u := range usersToDomain(found) {
		// Malformed diffs decode as empty and are not moderatable.
		if u.HasPendingChanges() {
			users = append(users, u)
		}
	}

	return users, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return usersToDomain(found), nil
}

func (r *UserRepository) FindApprovedByRoles(ctx context.Context, roles ...domain.Role) ([]domain.User, error) {
	found, err := r.dao.FindApprovedByRoles(ctx, rolesToStrings(roles))
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindApprovedByRoles -> %w", err)
	}

	return usersToDomain(found), nil
}

func (r *UserRepository) FindDirectory(ctx context.Context, f domain.DirectoryFilter) ([]domain.User, error) {
	found, err := r.dao.FindDirectory(ctx, dao.UserFilter{
		Query:       f.Query,
		Faculty:     f.Faculty,
		Course:      f.Course,
		City:        f.City,
		Gender:      string(f.Gender),
		DirectionID: f.DirectionID,
		Status:      f.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindDirectory -> %w", err)
	}

	return usersToDomain(found), nil
}

func (r *UserRepository) Facets(ctx context.Context) (domain.DirectoryFacets, error) {
	faculties, err := r.dao.DistinctValues(ctx, "faculty")
	if err != nil {
		return domain.DirectoryFacets{}, fmt.Errorf("r.dao.DistinctValues(faculty) -> %w", err)
	}

	cities, err := r.dao.DistinctValues(ctx, "city")
	if err != nil {
		return domain.DirectoryFacets{}, fmt.Errorf("r.dao.DistinctValues(city) -> %w", err)
	}

	courses, err := r.dao.DistinctCourses(ctx)
	if err != nil {
		return domain.DirectoryFacets{}, fmt.Errorf("r.dao.DistinctCourses -> %w", err)
	}

	return domain.DirectoryFacets{
		Faculties: faculties,
		Courses:   courses,
		Cities:    cities,
	}, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.dao.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.Count -> %w", err)
	}

	return n, nil
}

func (r *UserRepository) updateColumns(ctx context.Context, id uint, columns map[string]any) error {
	if err := r.dao.UpdateColumns(ctx, id, columns); err != nil {
		return fmt.Errorf("r.dao.UpdateColumns -> %w", err)
	}

	return nil
}

// SetPendingChanges stores a new diff, replacing any earlier one, and clears
// the previous moderation comment.
func (r *UserRepository) SetPendingChanges(ctx context.Context, id uint, changes domain.ProfileChanges) error {
	raw := ""
	if len(changes) > 0 {
		var err error
		if raw, err = changes.Encode(); err != nil {
			return fmt.Errorf("changes.Encode -> %w", err)
		}
	}

	return r.updateColumns(ctx, id, map[string]any{
		"pending_changes":    raw,
		"moderation_comment": "",
	})
}

// ApplyPendingChanges writes exactly the diffed columns and clears the diff
// in the same statement.
func (r *UserRepository) ApplyPendingChanges(ctx context.Context, id uint, changes domain.ProfileChanges) error {
	columns := map[string]any{
		"pending_changes":    "",
		"moderation_comment": "",
	}
	for _, ch := range changes {
		columns[profileColumn(ch.Field)] = columnValue(ch.New)
	}

	return r.updateColumns(ctx, id, columns)
}

func (r *UserRepository) RejectPendingChanges(ctx context.Context, id uint, comment string) error {
	return r.updateColumns(ctx, id, map[string]any{
		"pending_changes":    "",
		"moderation_comment": comment,
	})
}

func (r *UserRepository) ClearModerationComment(ctx context.Context, id uint) error {
	return r.updateColumns(ctx, id, map[string]any{"moderation_comment": ""})
}

func (r *UserRepository) UpdatePhoto(ctx context.Context, id uint, key string) error {
	return r.updateColumns(ctx, id, map[string]any{"photo_key": key})
}

func (r *UserRepository) UpdateQRCode(ctx context.Context, id uint, key string) error {
	return r.updateColumns(ctx, id, map[string]any{"qr_code_key": key})
}

func (r *UserRepository) Approve(ctx context.Context, id uint) error {
	return r.updateColumns(ctx, id, map[string]any{"is_approved": true})
}

func (r *UserRepository) SetActiveVolunteer(ctx context.Context, id uint, active bool) error {
	return r.updateColumns(ctx, id, map[string]any{"is_active_volunteer": active})
}

func (r *UserRepository) UpdateAccount(ctx context.Context, id uint, upd AccountUpdate) error {
	columns := map[string]any{
		"username": upd.Username,
		"email":    upd.Email,
	}
	for _, f := range domain.ProfileFields() {
		v, _ := upd.Profile.Get(f)
		columns[profileColumn(f)] = columnValue(v)
	}

	if err := r.dao.UpdateAccount(ctx, id, columns, upd.DirectionIDs); err != nil {
		return fmt.Errorf("r.dao.UpdateAccount -> %w", err)
	}

	return nil
}

// AssignRole gives user id the role. head_admin is exclusive: any other
// holder is demoted to worker first and returned.
func (r *UserRepository) AssignRole(ctx context.Context, id uint, role domain.Role) ([]uint, error) {
	demoteTo := ""
	if role == domain.RoleHeadAdmin {
		demoteTo = string(domain.RoleWorker)
	}

	demoted, err := r.dao.UpdateRole(ctx, id, string(role), demoteTo)
	if err != nil {
		return nil, fmt.Errorf("r.dao.UpdateRole -> %w", err)
	}

	return demoted, nil
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *UserRepository) AddActivityPeriod(ctx context.Context, p domain.ActivityPeriod) (domain.ActivityPeriod, error) {
	created, err := r.dao.InsertActivityPeriod(ctx, dao.ActivityPeriod{
		UserID:      p.UserID,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Description: p.Description,
	})
	if err != nil {
		return domain.ActivityPeriod{}, fmt.Errorf("r.dao.InsertActivityPeriod -> %w", err)
	}

	return activityPeriodToDomain(created), nil
}

func (r *UserRepository) ListActivityPeriods(ctx context.Context, userID uint) ([]domain.ActivityPeriod, error) {
	found, err := r.dao.FindActivityPeriods(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindActivityPeriods -> %w", err)
	}

	periods := make([]domain.ActivityPeriod, 0, len(found))
	for _, p := range found {
		periods = append(periods, activityPeriodToDomain(p))
	}

	return periods, nil
}

func (r *UserRepository) FindActivityPeriod(ctx context.Context, id uint) (domain.ActivityPeriod, error) {
	found, err := r.dao.FindActivityPeriod(ctx, id)
	if err != nil {
		return domain.ActivityPeriod{}, fmt.Errorf("r.dao.FindActivityPeriod -> %w", err)
	}

	return activityPeriodToDomain(found), nil
}

func (r *UserRepository) DeleteActivityPeriod(ctx context.Context, id uint) error {
	if err := r.dao.DeleteActivityPeriod(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeleteActivityPeriod -> %w", err)
	}

	return nil
}

func profileColumn(f domain.ProfileField) string {
	if f == domain.FieldGroup {
		return "study_group"
	}
	return string(f)
}

func columnValue(v domain.FieldValue) any {
	switch {
	case v.Date != nil:
		return *v.Date
	case v.Number != nil:
		return *v.Number
	case v.IsNull():
		return nil
	default:
		return v.Text
	}
}

func rolesToStrings(roles []domain.Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return out
}

func userToDAO(u domain.User) dao.User {
	return dao.User{
		ID:                u.ID,
		Username:          u.Username,
		Email:             u.Email,
		Password:          u.Password,
		Role:              string(u.Role),
		IsSuperuser:       u.IsSuperuser,
		IsApproved:        u.IsApproved,
		IsActiveVolunteer: u.IsActiveVolunteer,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		Patronymic:        u.Patronymic,
		BirthDate:         u.BirthDate,
		Gender:            string(u.Gender),
		City:              u.City,
		AboutMe:           u.AboutMe,
		JobTitle:          u.JobTitle,
		OfficeLocation:    u.OfficeLocation,
		Faculty:           u.Faculty,
		Course:            u.Course,
		Group:             u.Group,
		Phone:             u.Phone,
		Telegram:          u.Telegram,
		PhonePrivacy:      string(u.PhonePrivacy),
		TelegramPrivacy:   string(u.TelegramPrivacy),
		PhotoKey:          u.PhotoKey,
		QRCodeKey:         u.QRCodeKey,
		ModerationComment: u.ModerationComment,
	}
}

func userToDomain(u dao.User) domain.User {
	user := domain.User{
		ID:                u.ID,
		Username:          u.Username,
		Email:             u.Email,
		Password:          u.Password,
		Role:              domain.Role(u.Role),
		IsSuperuser:       u.IsSuperuser,
		IsApproved:        u.IsApproved,
		IsActiveVolunteer: u.IsActiveVolunteer,
		Profile: domain.Profile{
			FirstName:       u.FirstName,
			LastName:        u.LastName,
			Patronymic:      u.Patronymic,
			BirthDate:       u.BirthDate,
			Gender:          domain.Gender(u.Gender),
			City:            u.City,
			AboutMe:         u.AboutMe,
			JobTitle:        u.JobTitle,
			OfficeLocation:  u.OfficeLocation,
			Faculty:         u.Faculty,
			Course:          u.Course,
			Group:           u.Group,
			Phone:           u.Phone,
			Telegram:        u.Telegram,
			PhonePrivacy:    domain.Privacy(u.PhonePrivacy),
			TelegramPrivacy: domain.Privacy(u.TelegramPrivacy),
		},
		PhotoKey:          u.PhotoKey,
		QRCodeKey:         u.QRCodeKey,
		PendingChanges:    domain.DecodeProfileChanges(u.PendingChanges),
		ModerationComment: u.ModerationComment,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}

	if u.BirthDate != nil {
		user.BirthDate = domain.DateValue(u.BirthDate).Date
	}
	for _, d := range u.Directions {
		user.Directions = append(user.Directions, directionToDomain(d))
	}

	return user
}

func usersToDomain(users []dao.User) []domain.User {
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		out = append(out, userToDomain(u))
	}
	return out
}

func summaryOf(u *dao.User) *domain.UserSummary {
	if u == nil || u.ID == 0 {
		return nil
	}
	s := userToDomain(*u).Summary()
	return &s
}

func activityPeriodToDomain(p dao.ActivityPeriod) domain.ActivityPeriod {
	return domain.ActivityPeriod{
		ID:          p.ID,
		UserID:      p.UserID,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Description: p.Description,
	}
}

package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	ErrUserEmailExists        = errors.New("user with this email already exists")
	ErrUsernameExists         = errors.New("user with this username already exists")
	ErrUserNotFound           = errors.New("user not found")
	ErrActivityPeriodNotFound = errors.New("activity period not found")
)

type User struct {
	ID uint `gorm:"primaryKey"`

	Username string `gorm:"uniqueIndex;not null"`
	Email    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"`

	Role              string `gorm:"not null;index"`
	IsSuperuser       bool   `gorm:"not null"`
	IsApproved        bool   `gorm:"not null;index"`
	IsActiveVolunteer bool   `gorm:"not null"`

	FirstName       string
	LastName        string
	Patronymic      string
	BirthDate       *time.Time
	Gender          string
	City            string
	AboutMe         string
	JobTitle        string
	OfficeLocation  string
	Faculty         string
	Course          *int
	Group           string `gorm:"column:study_group"`
	Phone           string
	Telegram        string
	PhonePrivacy    string
	TelegramPrivacy string

	PhotoKey  string
	QRCodeKey string `gorm:"column:qr_code_key"`

	PendingChanges    string `gorm:"type:text"`
	ModerationComment string `gorm:"type:text"`

	Directions []Direction `gorm:"many2many:user_directions;"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type ActivityPeriod struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"not null;index"`
	StartDate   time.Time `gorm:"not null"`
	EndDate     *time.Time
	Description string
	CreatedAt   time.Time
}

// UserFilter narrows the volunteer directory. Zero values match everything.
type UserFilter struct {
	Query       string
	Faculty     string
	Course      *int
	City        string
	Gender      string
	DirectionID uint
	Status      string
}

const (
	StatusActive       = "active"
	StatusLeader       = "leader"
	StatusSchoolLeader = "school_leader"
	StatusPresident    = "president"
)

// RoleRule maps a user's current role and number of held leaderships to the
// role they should end up with.
type RoleRule func(role string, leaderships int) string

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

func mapUserErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	if name, ok := uniqueViolation(err); ok {
		switch {
		case strings.Contains(name, "email"):
			return ErrUserEmailExists
		case strings.Contains(name, "username"):
			return ErrUsernameExists
		}
	}
	return err
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	if err := d.db.WithContext(ctx).Create(&user).Error; err != nil {
		return User{}, mapUserErr(err)
	}

	return user, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id uint) (User, error) {
	var user User

	result := d.db.WithContext(ctx).Preload("Directions").First(&user, id)
	if result.Error != nil {
		return User{}, mapUserErr(result.Error)
	}

	return user, nil
}

func (d *UserDAO) FindByIDs(ctx context.Context, ids []uint) ([]User, error) {
	var users []User
	if len(ids) == 0 {
		return users, nil
	}

	if err := d.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (d *UserDAO) FindByUsername(ctx context.Context, username string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, "username = ?", username)
	if result.Error != nil {
		return User{}, mapUserErr(result.Error)
	}

	return user, nil
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, "email = ?", email)
	if result.Error != nil {
		return User{}, mapUserErr(result.Error)
	}

	return user, nil
}

// FindStaffIDs returns ids of superusers and users holding one of roles.
func (d *UserDAO) FindStaffIDs(ctx context.Context, roles []string) ([]uint, error) {
	var ids []uint

	err := d.db.WithContext(ctx).Model(&User{}).
		Where("is_superuser = ? OR role IN ?", true, roles).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}

func (d *UserDAO) FindUnapproved(ctx context.Context) ([]User, error) {
	var users []User

	err := d.db.WithContext(ctx).
		Where("is_approved = ?", false).
		Order("created_at, id").
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (d *UserDAO) FindWithPendingChanges(ctx context.Context) ([]User, error) {
	var users []User

	err := d.db.WithContext(ctx).
		Where("pending_changes IS NOT NULL AND pending_changes <> ''").
		Order("updated_at, id").
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (d *UserDAO) FindAll(ctx context.Context) ([]User, error) {
	var users []User

	if err := d.db.WithContext(ctx).Preload("Directions").Order("id").Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

// FindApprovedByRoles lists approved, non-superuser users with one of roles.
func (d *UserDAO) FindApprovedByRoles(ctx context.Context, roles []string) ([]User, error) {
	var users []User

	err := d.db.WithContext(ctx).
		Where("is_approved = ? AND is_superuser = ? AND role IN ?", true, false, roles).
		Order("last_name, first_name, id").
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (d *UserDAO) FindDirectory(ctx context.Context, f UserFilter) ([]User, error) {
	q := d.db.WithContext(ctx).Model(&User{}).Where("is_approved = ?", true)

	if s := strings.TrimSpace(f.Query); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("(LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(patronymic) LIKE ?)", like, like, like)
	}
	if f.Faculty != "" {
		q = q.Where("faculty = ?", f.Faculty)
	}
	if f.Course != nil {
		q = q.Where("course = ?", *f.Course)
	}
	if f.City != "" {
		q = q.Where("city = ?", f.City)
	}
	if f.Gender != "" {
		q = q.Where("gender = ?", f.Gender)
	}
	if f.DirectionID != 0 {
		q = q.Where("id IN (?)", d.db.Table("user_directions").Select("user_id").Where("direction_id = ?", f.DirectionID))
	}

	switch f.Status {
	case StatusActive:
		q = q.Where("is_active_volunteer = ?", true)
	case StatusLeader:
		q = q.Where("id IN (?)", d.db.Model(&Direction{}).Select("leader_id").Where("leader_id IS NOT NULL"))
	case StatusSchoolLeader:
		q = q.Where("id IN (?)", d.db.Table("school_leaders").Select("user_id"))
	case StatusPresident:
		q = q.Where("role = ?", "president")
	}

	var users []User
	if err := q.Preload("Directions").Order("last_name, first_name, id").Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

// DistinctValues returns the sorted non-empty values of column among approved
// users. column must be a trusted identifier.
func (d *UserDAO) DistinctValues(ctx context.Context, column string) ([]string, error) {
	var values []string

	err := d.db.WithContext(ctx).Model(&User{}).
		Where("is_approved = ?", true).
		Where(column+" IS NOT NULL AND "+column+" <> ''").
		Distinct().
		Order(column).
		Pluck(column, &values).Error
	if err != nil {
		return nil, err
	}

	return values, nil
}

func (d *UserDAO) DistinctCourses(ctx context.Context) ([]int, error) {
	var values []int

	err := d.db.WithContext(ctx).Model(&User{}).
		Where("is_approved = ? AND course IS NOT NULL", true).
		Distinct().
		Order("course").
		Pluck("course", &values).Error
	if err != nil {
		return nil, err
	}

	return values, nil
}

func (d *UserDAO) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := d.db.WithContext(ctx).Model(&User{}).Count(&n).Error; err != nil {
		return 0, err
	}

	return n, nil
}

// UpdateColumns writes only the given columns of one user.
func (d *UserDAO) UpdateColumns(ctx context.Context, id uint, columns map[string]any) error {
	result := d.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return mapUserErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// UpdateAccount saves columns and replaces the user's direction memberships
// in one transaction. A nil directionIDs keeps memberships untouched.
func (d *UserDAO) UpdateAccount(ctx context.Context, id uint, columns map[string]any, directionIDs []uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user := User{ID: id}
		if err := tx.First(&user, id).Error; err != nil {
			return mapUserErr(err)
		}

		if len(columns) > 0 {
			if err := tx.Model(&user).Updates(columns).Error; err != nil {
				return mapUserErr(err)
			}
		}

		if directionIDs == nil {
			return nil
		}

		var directions []Direction
		if len(directionIDs) > 0 {
			if err := tx.Where("id IN ?", directionIDs).Find(&directions).Error; err != nil {
				return err
			}
			if len(directions) != len(directionIDs) {
				return ErrDirectionNotFound
			}
		}

		return tx.Model(&user).Association("Directions").Replace(directions)
	})
}

// UpdateRole sets the role of user id. When demoteTo is not empty, every other
// holder of the same role is first moved to demoteTo; their ids are returned.
func (d *UserDAO) UpdateRole(ctx context.Context, id uint, role, demoteTo string) ([]uint, error) {
	var demoted []uint

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if demoteTo != "" {
			if err := tx.Model(&User{}).
				Where("role = ? AND id <> ?", role, id).
				Pluck("id", &demoted).Error; err != nil {
				return err
			}
			if len(demoted) > 0 {
				if err := tx.Model(&User{}).
					Where("id IN ?", demoted).
					Update("role", demoteTo).Error; err != nil {
					return err
				}
			}
		}

		result := tx.Model(&User{}).Where("id = ?", id).Update("role", role)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return demoted, nil
}

// Delete removes a user together with rows that only make sense for them and
// detaches audit entries that referenced them.
func (d *UserDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user := User{ID: id}
		if err := tx.First(&user, id).Error; err != nil {
			return mapUserErr(err)
		}

		if err := tx.Model(&AuditLog{}).Where("actor_id = ?", id).Update("actor_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&AuditLog{}).Where("target_user_id = ?", id).Update("target_user_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&Direction{}).Where("leader_id = ?", id).Update("leader_id", nil).Error; err != nil {
			return err
		}

		for _, stmt := range []string{
			"DELETE FROM user_directions WHERE user_id = ?",
			"DELETE FROM school_leaders WHERE user_id = ?",
			"DELETE FROM event_participants WHERE user_id = ?",
		} {
			if err := tx.Exec(stmt, id).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("recipient_id = ?", id).Delete(&Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&ActivityPeriod{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&EventHero{}).Error; err != nil {
			return err
		}

		var organized []uint
		if err := tx.Model(&Event{}).Where("organizer_id = ?", id).Pluck("id", &organized).Error; err != nil {
			return err
		}
		if len(organized) > 0 {
			if err := tx.Exec("DELETE FROM event_participants WHERE event_id IN ?", organized).Error; err != nil {
				return err
			}
			for _, model := range []any{&EventPhoto{}, &EventVideo{}, &EventHero{}} {
				if err := tx.Where("event_id IN ?", organized).Delete(model).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("id IN ?", organized).Delete(&Event{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&User{}, id).Error
	})
}

func (d *UserDAO) InsertActivityPeriod(ctx context.Context, p ActivityPeriod) (ActivityPeriod, error) {
	if err := d.db.WithContext(ctx).Create(&p).Error; err != nil {
		return ActivityPeriod{}, err
	}

	return p, nil
}

func (d *UserDAO) FindActivityPeriods(ctx context.Context, userID uint) ([]ActivityPeriod, error) {
	var periods []ActivityPeriod

	err := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date DESC, id DESC").
		Find(&periods).Error
	if err != nil {
		return nil, err
	}

	return periods, nil
}

func (d *UserDAO) FindActivityPeriod(ctx context.Context, id uint) (ActivityPeriod, error) {
	var p ActivityPeriod

	if err := d.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ActivityPeriod{}, ErrActivityPeriodNotFound
		}
		return ActivityPeriod{}, err
	}

	return p, nil
}

func (d *UserDAO) DeleteActivityPeriod(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&ActivityPeriod{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrActivityPeriodNotFound
	}

	return nil
}

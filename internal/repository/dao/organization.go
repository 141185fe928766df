package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrDirectionNotFound   = errors.New("direction not found")
	ErrDirectionNameExists = errors.New("direction with this name already exists")
	ErrSchoolNotFound      = errors.New("school not found")
	ErrSchoolNameExists    = errors.New("school with this name already exists")
)

type Direction struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;not null"`
	LeaderID  *uint  `gorm:"uniqueIndex"`
	Leader    *User  `gorm:"constraint:OnDelete:SET NULL;"`
	CreatedAt time.Time
}

type School struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;not null"`
	Leaders   []User `gorm:"many2many:school_leaders;"`
	CreatedAt time.Time
}

type OrganizationDAO struct {
	db *gorm.DB
}

func NewOrganizationDAO(db *gorm.DB) *OrganizationDAO {
	return &OrganizationDAO{
		db: db,
	}
}

func (d *OrganizationDAO) FindDirections(ctx context.Context) ([]Direction, error) {
	var directions []Direction

	if err := d.db.WithContext(ctx).Preload("Leader").Order("name").Find(&directions).Error; err != nil {
		return nil, err
	}

	return directions, nil
}

func (d *OrganizationDAO) FindDirection(ctx context.Context, id uint) (Direction, error) {
	var direction Direction

	if err := d.db.WithContext(ctx).Preload("Leader").First(&direction, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Direction{}, ErrDirectionNotFound
		}
		return Direction{}, err
	}

	return direction, nil
}

func (d *OrganizationDAO) InsertDirection(ctx context.Context, direction Direction) (Direction, error) {
	if err := d.db.WithContext(ctx).Omit("Leader").Create(&direction).Error; err != nil {
		if _, ok := uniqueViolation(err); ok {
			return Direction{}, ErrDirectionNameExists
		}
		return Direction{}, err
	}

	return direction, nil
}

// DeleteDirection removes a direction, its memberships, and revokes the
// leader's role through rule if it was their last leadership.
func (d *OrganizationDAO) DeleteDirection(ctx context.Context, id uint, rule RoleRule) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var direction Direction
		if err := tx.First(&direction, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDirectionNotFound
			}
			return err
		}

		if err := tx.Exec("DELETE FROM user_directions WHERE direction_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&Direction{}, id).Error; err != nil {
			return err
		}

		if direction.LeaderID != nil {
			return syncLeadershipRole(tx, *direction.LeaderID, rule)
		}

		return nil
	})
}

// SetDirectionLeader replaces the leader of a direction; nil clears it. A
// user leading another direction is moved. Roles of the previous and the new
// leader are recomputed through rule. The previous leader id is returned.
func (d *OrganizationDAO) SetDirectionLeader(ctx context.Context, id uint, leaderID *uint, rule RoleRule) (*uint, error) {
	var previous *uint

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var direction Direction
		if err := tx.First(&direction, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDirectionNotFound
			}
			return err
		}
		previous = direction.LeaderID

		if leaderID != nil {
			if err := tx.First(&User{}, *leaderID).Error; err != nil {
				return mapUserErr(err)
			}
			if err := tx.Model(&Direction{}).
				Where("leader_id = ? AND id <> ?", *leaderID, id).
				Update("leader_id", nil).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&Direction{}).Where("id = ?", id).Update("leader_id", leaderID).Error; err != nil {
			return err
		}

		if previous != nil && (leaderID == nil || *previous != *leaderID) {
			if err := syncLeadershipRole(tx, *previous, rule); err != nil {
				return err
			}
		}
		if leaderID != nil {
			return syncLeadershipRole(tx, *leaderID, rule)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return previous, nil
}

func (d *OrganizationDAO) FindSchools(ctx context.Context) ([]School, error) {
	var schools []School

	if err := d.db.WithContext(ctx).Preload("Leaders").Order("name").Find(&schools).Error; err != nil {
		return nil, err
	}

	return schools, nil
}

func (d *OrganizationDAO) FindSchool(ctx context.Context, id uint) (School, error) {
	var school School

	if err := d.db.WithContext(ctx).Preload("Leaders").First(&school, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return School{}, ErrSchoolNotFound
		}
		return School{}, err
	}

	return school, nil
}

func (d *OrganizationDAO) InsertSchool(ctx context.Context, school School) (School, error) {
	if err := d.db.WithContext(ctx).Omit("Leaders").Create(&school).Error; err != nil {
		if _, ok := uniqueViolation(err); ok {
			return School{}, ErrSchoolNameExists
		}
		return School{}, err
	}

	return school, nil
}

func (d *OrganizationDAO) DeleteSchool(ctx context.Context, id uint, rule RoleRule) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var school School
		if err := tx.Preload("Leaders").First(&school, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSchoolNotFound
			}
			return err
		}

		if err := tx.Exec("DELETE FROM school_leaders WHERE school_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&School{}, id).Error; err != nil {
			return err
		}

		for _, leader := range school.Leaders {
			if err := syncLeadershipRole(tx, leader.ID, rule); err != nil {
				return err
			}
		}

		return nil
	})
}

// ToggleSchoolLeader adds userID to the school's leaders, or removes them if
// already there, and recomputes their role. It reports whether they were added.
func (d *OrganizationDAO) ToggleSchoolLeader(ctx context.Context, schoolID, userID uint, rule RoleRule) (bool, error) {
	var added bool

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		school := School{ID: schoolID}
		if err := tx.First(&school, schoolID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSchoolNotFound
			}
			return err
		}

		user := User{ID: userID}
		if err := tx.First(&user, userID).Error; err != nil {
			return mapUserErr(err)
		}

		var n int64
		if err := tx.Table("school_leaders").
			Where("school_id = ? AND user_id = ?", schoolID, userID).
			Count(&n).Error; err != nil {
			return err
		}

		assoc := tx.Model(&school).Association("Leaders")
		if n > 0 {
			if err := assoc.Delete(&user); err != nil {
				return err
			}
		} else {
			if err := assoc.Append(&user); err != nil {
				return err
			}
			added = true
		}

		return syncLeadershipRole(tx, userID, rule)
	})
	if err != nil {
		return false, err
	}

	return added, nil
}

func syncLeadershipRole(tx *gorm.DB, userID uint, rule RoleRule) error {
	var user User
	if err := tx.Select("id", "role").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	var directions, schools int64
	if err := tx.Model(&Direction{}).Where("leader_id = ?", userID).Count(&directions).Error; err != nil {
		return err
	}
	if err := tx.Table("school_leaders").Where("user_id = ?", userID).Count(&schools).Error; err != nil {
		return err
	}

	role := rule(user.Role, int(directions+schools))
	if role == user.Role {
		return nil
	}

	return tx.Model(&User{}).Where("id = ?", userID).Update("role", role).Error
}

package domain

// Volunteer directory status filters.
const (
	StatusActive       = "active"
	StatusLeader       = "leader"
	StatusSchoolLeader = "school_leader"
	StatusPresident    = "president"
)

type DirectoryFilter struct {
	Query       string `json:"query"`
	Faculty     string `json:"faculty"`
	Course      *int   `json:"course"`
	City        string `json:"city"`
	Gender      Gender `json:"gender"`
	DirectionID uint   `json:"direction"`
	Status      string `json:"status"`
}

// DirectoryFacets are the values the directory can be filtered by.
type DirectoryFacets struct {
	Faculties  []string    `json:"faculties"`
	Courses    []int       `json:"courses"`
	Cities     []string    `json:"cities"`
	Directions []Direction `json:"directions"`
}

package models

import "time"

type JobStatus string

const (
	JobOpen      JobStatus = "OPEN"
	JobClosed    JobStatus = "CLOSED"
	JobDraft     JobStatus = "DRAFT"
	JobCancelled JobStatus = "CANCELLED"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobOpen, JobClosed, JobDraft, JobCancelled:
		return true
	}
	return false
}

type JobType string

const (
	JobFullTime      JobType = "FULL_TIME"
	JobInternship    JobType = "INTERNSHIP"
	JobInternshipPPO JobType = "INTERNSHIP_PPO"
	JobContract      JobType = "CONTRACT"
)

func (t JobType) Valid() bool {
	switch t {
	case JobFullTime, JobInternship, JobInternshipPPO, JobContract:
		return true
	}
	return false
}

type GenderRule string

const (
	GenderAny        GenderRule = "ANY"
	GenderMaleOnly   GenderRule = "MALE"
	GenderFemaleOnly GenderRule = "FEMALE"
)

type Job struct {
	ID          string    `gorm:"column:id;size:36;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;type:text" json:"name"`
	Company     string    `gorm:"column:company;type:text" json:"company"`
	Location    string    `gorm:"column:location;type:text" json:"location"`
	Type        JobType   `gorm:"column:type;type:varchar(32)" json:"type"`
	CTC         float64   `gorm:"column:ctc" json:"ctc"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Status      JobStatus `gorm:"column:status;type:varchar(16);index" json:"status"`

	ApplicationOpen   time.Time `gorm:"column:application_open" json:"applicationOpen"`
	ApplicationClosed time.Time `gorm:"column:application_closed" json:"applicationClosed"`

	Eligibility Eligibility `gorm:"embedded" json:"eligibility"`

	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (Job) TableName() string { return "jobs" }

// AcceptingAt reports whether t falls inside the application window (inclusive).
func (j *Job) AcceptingAt(t time.Time) bool {
	return !t.Before(j.ApplicationOpen) && !t.After(j.ApplicationClosed)
}

// Eligibility is the rule set embedded in every job row.
type Eligibility struct {
	BTech         bool     `gorm:"column:btech" json:"btech"`
	BTechCutoff   float64  `gorm:"column:btech_cutoff" json:"btechCutoff"`
	BTechBranches Branches `gorm:"column:btech_branches" json:"btechBranches"`
	MTech         bool     `gorm:"column:mtech" json:"mtech"`
	MTechCutoff   float64  `gorm:"column:mtech_cutoff" json:"mtechCutoff"`
	MTechBranches Branches `gorm:"column:mtech_branches" json:"mtechBranches"`
	MBA           bool     `gorm:"column:mba" json:"mba"`
	MBACutoff     float64  `gorm:"column:mba_cutoff" json:"mbaCutoff"`
	MBABranches   Branches `gorm:"column:mba_branches" json:"mbaBranches"`
	BDes          bool     `gorm:"column:bdes" json:"bdes"`
	BDesCutoff    float64  `gorm:"column:bdes_cutoff" json:"bdesCutoff"`
	BDesBranches  Branches `gorm:"column:bdes_branches" json:"bdesBranches"`
	MDes          bool     `gorm:"column:mdes" json:"mdes"`
	MDesCutoff    float64  `gorm:"column:mdes_cutoff" json:"mdesCutoff"`
	MDesBranches  Branches `gorm:"column:mdes_branches" json:"mdesBranches"`
	BA            bool     `gorm:"column:ba" json:"ba"`
	BACutoff      float64  `gorm:"column:ba_cutoff" json:"baCutoff"`
	BABranches    Branches `gorm:"column:ba_branches" json:"baBranches"`
	MA            bool     `gorm:"column:ma" json:"ma"`
	MACutoff      float64  `gorm:"column:ma_cutoff" json:"maCutoff"`
	MABranches    Branches `gorm:"column:ma_branches" json:"maBranches"`
	BBA           bool     `gorm:"column:bba" json:"bba"`
	BBACutoff     float64  `gorm:"column:bba_cutoff" json:"bbaCutoff"`
	BBABranches   Branches `gorm:"column:bba_branches" json:"bbaBranches"`
	MSc           bool     `gorm:"column:msc" json:"msc"`
	MScCutoff     float64  `gorm:"column:msc_cutoff" json:"mscCutoff"`
	MScBranches   Branches `gorm:"column:msc_branches" json:"mscBranches"`

	TenthPercentageCutoff   float64    `gorm:"column:tenth_percentage_cutoff" json:"tenthPercentageCutoff"`
	TwelfthPercentageCutoff float64    `gorm:"column:twelfth_percentage_cutoff" json:"twelfthPercentageCutoff"`
	UGPercentageCutoff      float64    `gorm:"column:ug_percentage_cutoff" json:"ugPercentageCutoff"`
	Gender                  GenderRule `gorm:"column:gender_rule;type:varchar(16)" json:"gender"`
	PWDOnly                 bool       `gorm:"column:pwd_only" json:"pwdOnly"`
	BacklogsAllowed         bool       `gorm:"column:backlogs_allowed" json:"backlogsAllowed"`
	OpenForPlaced           bool       `gorm:"column:open_for_placed" json:"openForPlaced"`
}

// DegreeRule is one program's slice of an Eligibility.
type DegreeRule struct {
	Degree   Degree
	Enabled  bool
	Cutoff   float64
	Branches []string
}

// DegreeRules flattens the per-degree columns, in Degrees order.
func (e Eligibility) DegreeRules() []DegreeRule {
	return []DegreeRule{
		{DegreeBTech, e.BTech, e.BTechCutoff, e.BTechBranches},
		{DegreeMTech, e.MTech, e.MTechCutoff, e.MTechBranches},
		{DegreeMBA, e.MBA, e.MBACutoff, e.MBABranches},
		{DegreeBDes, e.BDes, e.BDesCutoff, e.BDesBranches},
		{DegreeMDes, e.MDes, e.MDesCutoff, e.MDesBranches},
		{DegreeBA, e.BA, e.BACutoff, e.BABranches},
		{DegreeMA, e.MA, e.MACutoff, e.MABranches},
		{DegreeBBA, e.BBA, e.BBACutoff, e.BBABranches},
		{DegreeMSc, e.MSc, e.MScCutoff, e.MScBranches},
	}
}

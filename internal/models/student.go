package models

import (
	"time"

	"gorm.io/datatypes"
)

type Degree string

const (
	DegreeBTech Degree = "BTECH"
	DegreeMTech Degree = "MTECH"
	DegreeMBA   Degree = "MBA"
	DegreeBDes  Degree = "BDES"
	DegreeMDes  Degree = "MDES"
	DegreeBA    Degree = "BA"
	DegreeMA    Degree = "MA"
	DegreeBBA   Degree = "BBA"
	DegreeMSc   Degree = "MSC"
)

// Degrees lists every program a job can be opened for, in display order.
var Degrees = []Degree{DegreeBTech, DegreeMTech, DegreeMBA, DegreeBDes, DegreeMDes, DegreeBA, DegreeMA, DegreeBBA, DegreeMSc}

func (d Degree) Valid() bool {
	for _, v := range Degrees {
		if v == d {
			return true
		}
	}
	return false
}

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

type Student struct {
	ID           string `gorm:"column:id;size:36;primaryKey" json:"id"`
	RollNumber   string `gorm:"column:roll_number;type:varchar(32);uniqueIndex" json:"rollNumber"`
	Email        string `gorm:"column:email;type:varchar(255);uniqueIndex" json:"email"`
	PasswordHash string `gorm:"column:password_hash;type:text" json:"-"`

	// profile
	Name  string `gorm:"column:name;type:text" json:"name"`
	Phone string `gorm:"column:phone;type:varchar(32)" json:"phone"`

	// personal
	Gender      Gender          `gorm:"column:gender;type:varchar(16)" json:"gender"`
	DateOfBirth *datatypes.Date `gorm:"column:date_of_birth;type:date" json:"dateOfBirth,omitempty"`
	Address     string          `gorm:"column:address;type:text" json:"address"`
	IsPWD       bool            `gorm:"column:is_pwd" json:"isPwd"`
	IsPlaced    bool            `gorm:"column:is_placed" json:"isPlaced"`

	// academic
	Degree       Degree   `gorm:"column:degree;type:varchar(16)" json:"degree"`
	Branch       string   `gorm:"column:branch;type:varchar(64);index" json:"branch"`
	CurrentYear  int      `gorm:"column:current_year;index" json:"currentYear"`
	GPA          float64  `gorm:"column:gpa" json:"gpa"`
	CGPA         float64  `gorm:"column:cgpa" json:"cgpa"`
	TenthMarks   *float64 `gorm:"column:tenth_marks" json:"tenthMarks"`
	TwelfthMarks *float64 `gorm:"column:twelfth_marks" json:"twelfthMarks"`
	UGPercentage *float64 `gorm:"column:ug_percentage" json:"ugPercentage"`
	Backlogs     int      `gorm:"column:backlogs" json:"backlogs"`

	IsActive  bool      `gorm:"column:is_active;default:true" json:"isActive"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (Student) TableName() string { return "students" }

type SkillLevel string

const (
	SkillBeginner     SkillLevel = "BEGINNER"
	SkillIntermediate SkillLevel = "INTERMEDIATE"
	SkillAdvanced     SkillLevel = "ADVANCED"
)

type StudentSkill struct {
	ID        string     `gorm:"column:id;size:36;primaryKey" json:"id"`
	StudentID string     `gorm:"column:student_id;size:36;uniqueIndex:idx_student_skill" json:"studentId"`
	Name      string     `gorm:"column:name;type:varchar(64)" json:"name"`
	NameKey   string     `gorm:"column:name_key;type:varchar(64);uniqueIndex:idx_student_skill" json:"-"`
	Level     SkillLevel `gorm:"column:level;type:varchar(16)" json:"level,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at" json:"createdAt"`
}

func (StudentSkill) TableName() string { return "student_skills" }

package enrollment

import "time"

type (
	SummaryField struct {
		Label string
		Value string
	}

	SummarySection struct {
		Title  string
		Fields []SummaryField
	}

	// Summary is the printable one-page view of a submitted application.
	Summary struct {
		SchoolName  string
		Number      string
		Status      string
		SubmittedAt time.Time
		Sections    []SummarySection
	}
)

// NewSummary lays out app for printing.
func NewSummary(app Application, schoolName, academicYear string) Summary {
	return Summary{
		SchoolName:  schoolName,
		Number:      app.Number(academicYear),
		Status:      app.Status,
		SubmittedAt: app.CreatedAt,
		Sections: []SummarySection{
			{
				Title: "ข้อมูลนักเรียน",
				Fields: []SummaryField{
					{"ชื่อ-นามสกุล", app.StudentName},
					{"เลขประจำตัวประชาชน", app.IDCard},
					{"วันเกิด", app.BirthDate},
					{"เพศ", app.Gender},
					{"สัญชาติ", app.Nationality},
					{"ศาสนา", app.Religion},
					{"โทรศัพท์", app.Phone},
					{"อีเมล", app.Email},
					{"ที่อยู่", app.Address},
				},
			},
			{
				Title: "ข้อมูลผู้ปกครอง",
				Fields: []SummaryField{
					{"ชื่อบิดา", app.FatherName},
					{"โทรศัพท์บิดา", app.FatherPhone},
					{"อาชีพบิดา", app.FatherOccupation},
					{"ชื่อมารดา", app.MotherName},
					{"โทรศัพท์มารดา", app.MotherPhone},
					{"อาชีพมารดา", app.MotherOccupation},
				},
			},
			{
				Title: "ข้อมูลการศึกษา",
				Fields: []SummaryField{
					{"โรงเรียนเดิม", app.PreviousSchool},
					{"ระดับชั้นเดิม", app.PreviousLevel},
					{"เกรดเฉลี่ย", app.GPA},
					{"ระดับชั้นที่สมัคร", app.EnrollLevel},
					{"แผนการเรียน", app.Program},
				},
			},
		},
	}
}

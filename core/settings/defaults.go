package settings

// Setting keys.
const (
	KeySchoolName        = "school_name"
	KeySchoolTagline     = "school_tagline"
	KeySchoolDescription = "school_description"
	KeySchoolVision      = "school_vision"
	KeySchoolMission     = "school_mission"
	KeySchoolValues      = "school_values"
	KeySchoolHistory     = "school_history"

	KeyHeroBadge  = "hero_badge"
	KeyHeroTitle1 = "hero_title_1"
	KeyHeroTitle2 = "hero_title_2"

	KeyStatStudents        = "stat_students"
	KeyStatStudentsLabel   = "stat_students_label"
	KeyStatUniversity      = "stat_university"
	KeyStatUniversityLabel = "stat_university_label"
	KeyStatYears           = "stat_years"
	KeyStatYearsLabel      = "stat_years_label"

	KeyAboutTitle1             = "about_title_1"
	KeyAboutTitle2             = "about_title_2"
	KeyCurriculumTitle1        = "curriculum_title_1"
	KeyCurriculumTitle2        = "curriculum_title_2"
	KeyCurriculumDescription   = "curriculum_description"
	KeyCurriculumStudyTime     = "curriculum_study_time"
	KeyCurriculumClassSize     = "curriculum_class_size"
	KeyCurriculumDuration      = "curriculum_duration"
	KeyCurriculumDurationLabel = "curriculum_duration_label"
	KeyAboutStat1              = "about_stat_1"
	KeyAboutStat1Label         = "about_stat_1_label"
	KeyAboutStat2              = "about_stat_2"
	KeyAboutStat2Label         = "about_stat_2_label"
	KeyAboutStat3              = "about_stat_3"
	KeyAboutStat3Label         = "about_stat_3_label"
	KeyAboutStat4              = "about_stat_4"
	KeyAboutStat4Label         = "about_stat_4_label"

	KeyContactAddress  = "contact_address"
	KeyContactPhone    = "contact_phone"
	KeyContactEmail    = "contact_email"
	KeyContactFax      = "contact_fax"
	KeyContactHours    = "contact_hours"
	KeyContactMapURL   = "contact_map_url"
	KeyGoogleMapsEmbed = "google_maps_embed"

	KeySocialFacebook  = "social_facebook"
	KeySocialYoutube   = "social_youtube"
	KeySocialInstagram = "social_instagram"
	KeySocialLine      = "social_line"
	KeySocialLinks     = "social_links"

	KeyFooterService1Name  = "footer_service_1_name"
	KeyFooterService1URL   = "footer_service_1_url"
	KeyFooterService2Name  = "footer_service_2_name"
	KeyFooterService2URL   = "footer_service_2_url"
	KeyFooterService3Name  = "footer_service_3_name"
	KeyFooterService3URL   = "footer_service_3_url"
	KeyFooterService4Name  = "footer_service_4_name"
	KeyFooterService4URL   = "footer_service_4_url"
	KeyAcademicCalendarURL = "academic_calendar_url"
	KeyAcademicYear        = "academic_year"
)

// defaultValues holds the compiled default of every text key, in display order.
var defaultValues = []struct{ key, value string }{
	{KeySchoolName, "โรงเรียนห้องสื่อครูคอมวิทยาคม"},
	{KeySchoolTagline, "ก้าวสู่อนาคตด้วยปัญญา"},
	{KeySchoolDescription, "สถาบันการศึกษาชั้นนำระดับมัธยมศึกษา มุ่งมั่นพัฒนาผู้เรียนให้มีความเป็นเลิศทางวิชาการ"},
	{KeySchoolVision, "มุ่งมั่นพัฒนาผู้เรียนให้มีความเป็นเลิศทางวิชาการ มีคุณธรรม จริยธรรม"},
	{KeySchoolMission, "จัดการศึกษาที่มีคุณภาพ พัฒนาครูและบุคลากร"},
	{KeySchoolValues, "ซื่อสัตย์ วินัย ใฝ่เรียนรู้"},
	{KeySchoolHistory, "ก่อตั้งเมื่อปี พ.ศ. 2517"},
	{KeyHeroBadge, "เปิดรับสมัครนักเรียนใหม่ ปีการศึกษา 2568"},
	{KeyHeroTitle1, "ก้าวสู่อนาคต"},
	{KeyHeroTitle2, "ด้วยปัญญา"},
	{KeyStatStudents, "2,500+"},
	{KeyStatStudentsLabel, "นักเรียน"},
	{KeyStatUniversity, "98%"},
	{KeyStatUniversityLabel, "บุคลากร"},
	{KeyStatYears, "50+"},
	{KeyStatYearsLabel, "ปีแห่งความเป็นเลิศ"},
	{KeyAboutTitle1, "สถาบันการศึกษาที่"},
	{KeyAboutTitle2, "ไว้วางใจ"},
	{KeyCurriculumTitle1, "หลักสูตรที่"},
	{KeyCurriculumTitle2, "หลากหลาย"},
	{KeyCurriculumDescription, "เราออกแบบหลักสูตรที่ตอบโจทย์ความสนใจและเป้าหมายของนักเรียนทุกคน พร้อมทีมครูผู้เชี่ยวชาญในแต่ละสาขา"},
	{KeyCurriculumStudyTime, "07:30 - 15:30"},
	{KeyCurriculumClassSize, "30-35 คน"},
	{KeyCurriculumDuration, "6 ปี"},
	{KeyCurriculumDurationLabel, "ระยะเวลาหลักสูตร (ม.1-ม.6)"},
	{KeyAboutStat1, "50+"},
	{KeyAboutStat1Label, "ปีแห่งประสบการณ์"},
	{KeyAboutStat2, "2,500+"},
	{KeyAboutStat2Label, "นักเรียนปัจจุบัน"},
	{KeyAboutStat3, "200+"},
	{KeyAboutStat3Label, "บุคลากรคุณภาพ"},
	{KeyAboutStat4, "15,000+"},
	{KeyAboutStat4Label, "ศิษย์เก่าทั่วประเทศ"},
	{KeyContactAddress, "123 ถนนการศึกษา แขวงวิทยาคม เขตพัฒนา กรุงเทพฯ 10XXX"},
	{KeyContactPhone, "02-XXX-XXXX"},
	{KeyContactEmail, "info@wittayakom.ac.th"},
	{KeyContactFax, ""},
	{KeyContactHours, "จันทร์ - ศุกร์ 07:30 - 16:30 น."},
	{KeyContactMapURL, ""},
	{KeyGoogleMapsEmbed, ""},
	{KeySocialFacebook, ""},
	{KeySocialYoutube, ""},
	{KeySocialInstagram, ""},
	{KeySocialLine, ""},
	{KeyFooterService1Name, "ระบบรับสมัคร"},
	{KeyFooterService1URL, "#"},
	{KeyFooterService2Name, "ตรวจสอบผลการเรียน"},
	{KeyFooterService2URL, "#"},
	{KeyFooterService3Name, "ปฏิทินการศึกษา"},
	{KeyFooterService3URL, "#"},
	{KeyFooterService4Name, "ดาวน์โหลดเอกสาร"},
	{KeyFooterService4URL, "#"},
	{KeyAcademicCalendarURL, ""},
	{KeyAcademicYear, "2568"},
}

// Keys returns every text setting key, in display order. KeySocialLinks is not part of it.
func Keys() []string {
	keys := make([]string, 0, len(defaultValues))
	for _, dv := range defaultValues {
		keys = append(keys, dv.key)
	}
	return keys
}

// IsKnownKey reports whether key is a text setting key or KeySocialLinks.
func IsKnownKey(key string) bool {
	if key == KeySocialLinks {
		return true
	}
	for _, dv := range defaultValues {
		if dv.key == key {
			return true
		}
	}
	return false
}

// Defaults returns a complete snapshot made of the compiled defaults only.
func Defaults() Settings {
	values := make(map[string]string, len(defaultValues))
	for _, dv := range defaultValues {
		values[dv.key] = dv.value
	}
	return Settings{Values: values, SocialLinks: []SocialLink{}}
}

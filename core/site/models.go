package site

type (
	Administrator struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		Position      string `json:"position"`
		Education     string `json:"education"`
		Quote         string `json:"quote"`
		PhotoURL      string `json:"photo_url"`
		OrderPosition int    `json:"order_position"`
	}

	CurriculumProgram struct {
		ID            string   `json:"id"`
		Title         string   `json:"title"`
		Description   string   `json:"description"`
		Icon          string   `json:"icon"`
		Color         string   `json:"color"`
		Subjects      []string `json:"subjects"`
		Careers       []string `json:"careers"`
		IsActive      bool     `json:"is_active"`
		OrderPosition int      `json:"order_position"`
	}

	CurriculumActivity struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		Description   string `json:"description"`
		Icon          string `json:"icon"`
		IsActive      bool   `json:"is_active"`
		OrderPosition int    `json:"order_position"`
	}

	StudentStat struct {
		ID            string `json:"id"`
		Label         string `json:"label"`
		Value         string `json:"value"`
		Icon          string `json:"icon"`
		Color         string `json:"color"`
		IsActive      bool   `json:"is_active"`
		OrderPosition int    `json:"order_position"`
	}

	GradeLevel struct {
		ID            string `json:"id"`
		Level         string `json:"level"`
		Rooms         int    `json:"rooms"`
		Students      int    `json:"students"`
		Boys          int    `json:"boys"`
		Girls         int    `json:"girls"`
		IsActive      bool   `json:"is_active"`
		OrderPosition int    `json:"order_position"`
	}

	Achievement struct {
		ID            string `json:"id"`
		Title         string `json:"title"`
		Description   string `json:"description"`
		Year          string `json:"year"`
		Category      string `json:"category"`
		OrderPosition int    `json:"order_position"`
	}

	StudentActivity struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		Members       int    `json:"members"`
		Description   string `json:"description"`
		OrderPosition int    `json:"order_position"`
	}

	StudentCouncilMember struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		Position      string `json:"position"`
		Class         string `json:"class"`
		Initial       string `json:"initial"`
		ImageURL      string `json:"image_url"`
		IsActive      bool   `json:"is_active"`
		OrderPosition int    `json:"order_position"`
	}

	// StaffGroup is one department of the static staff directory.
	StaffGroup struct {
		Department string
		Members    []StaffMember
	}

	StaffMember struct {
		Name       string
		Position   string
		Subject    string // subject taught, or department for support staff
		Education  string
		Experience string
	}
)

// GradeTotals sums the grade levels.
func GradeTotals(levels []GradeLevel) GradeLevel {
	var total GradeLevel
	for _, l := range levels {
		total.Rooms += l.Rooms
		total.Students += l.Students
		total.Boys += l.Boys
		total.Girls += l.Girls
	}
	return total
}

package site

var staffDirectory = []StaffGroup{
	{
		Department: "บุคลากรสายการสอน",
		Members: []StaffMember{
			{Name: "นายอดิศักดิ์ นรินทร์รัมย์", Position: "หัวหน้ากลุ่มงานวิชาการ", Subject: "คอมพิวเตอร์", Education: "ปริญญาโท เทคโนโลยี", Experience: "10 ปี"},
			{Name: "นางนันชนาพร วรคำ", Position: "หัวหน้ากลุ่มงานงบประมาณ", Subject: "ปฐมวัย", Education: "ปริญญาโท บริหารการศึกษา", Experience: "15 ปี"},
			{Name: "นายสุรชัย บูรณ์เจริญ", Position: "หัวหน้ากลุ่มบริหารงานบุคคล", Subject: "การงานพื้นฐานอาชีพ", Education: "ปริญญาตรี", Experience: "20 ปี"},
			{Name: "นางน้ำทิพย์ วริศโรจนชัย", Position: "หัวหน้ากลุ่มบริหารทั่วไป", Subject: "ภาษาไทย", Education: "ปริญญาโท บริหารการศึกษา", Experience: "21 ปี"},
			{Name: "นายประเสริฐ ศิลปิน", Position: "หัวหน้ากลุ่มสาระการเรียนรู้ศิลปะ", Subject: "ศิลปะ", Education: "ปริญญาตรี ศิลปศึกษา", Experience: "8 ปี"},
			{Name: "นางสาวกาญจนา แข็งแรง", Position: "หัวหน้ากลุ่มสาระการเรียนรู้สุขศึกษาและพลศึกษา", Subject: "สุขศึกษาและพลศึกษา", Education: "ปริญญาตรี พลศึกษา", Experience: "7 ปี"},
			{Name: "นายอุดม ช่างคิด", Position: "หัวหน้ากลุ่มสาระการเรียนรู้การงานอาชีพ", Subject: "การงานอาชีพ", Education: "ปริญญาโท เทคโนโลยีการศึกษา", Experience: "11 ปี"},
			{Name: "นางสาวสังคม สันติสุข", Position: "หัวหน้ากลุ่มสาระการเรียนรู้สังคมศึกษา", Subject: "สังคมศึกษา", Education: "ปริญญาโท สังคมศาสตร์", Experience: "13 ปี"},
		},
	},
	{
		Department: "บุคลากรสายสนับสนุน",
		Members: []StaffMember{
			{Name: "นางสาวปราณี รักงาน", Position: "หัวหน้างานธุรการ", Subject: "ฝ่ายบริหารทั่วไป", Experience: "10 ปี"},
			{Name: "นายสมศักดิ์ รักษ์ความสะอาด", Position: "หัวหน้างานอาคารสถานที่", Subject: "ฝ่ายบริหารทั่วไป", Experience: "8 ปี"},
			{Name: "นางวันดี ใจดี", Position: "หัวหน้างานการเงินและพัสดุ", Subject: "ฝ่ายบริหาร", Experience: "12 ปี"},
			{Name: "นายคอมพิวเตอร์ เก่งมาก", Position: "หัวหน้างานเทคโนโลยีสารสนเทศ", Subject: "ฝ่ายวิชาการ", Experience: "6 ปี"},
		},
	},
}

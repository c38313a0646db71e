package schedule

const (
	ShiftMorning   = "MORNING"
	ShiftAfternoon = "AFTERNOON"
	ShiftEvening   = "EVENING"
)

var ShiftCodes = []string{ShiftMorning, ShiftAfternoon, ShiftEvening}

func ValidShiftCode(code string) bool {
	for _, known := range ShiftCodes {
		if code == known {
			return true
		}
	}
	return false
}

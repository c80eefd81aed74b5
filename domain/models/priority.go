package models

// Priority ระดับความสำคัญของ task (1=Low, 2=Medium, 3=High)
type Priority int

const (
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
)

// PriorityOption ใช้ส่งให้ client สร้าง dropdown
type PriorityOption struct {
	Value Priority `json:"value"`
	Label string   `json:"label"`
}

// AllPriorities เรียงจากต่ำไปสูง
var AllPriorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) IsValid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

// Label ชื่อที่แสดงผล
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	default:
		return "Unknown"
	}
}

// Color สีของ badge ฝั่ง UI
func (p Priority) Color() string {
	switch p {
	case PriorityLow:
		return "green"
	case PriorityMedium:
		return "yellow"
	case PriorityHigh:
		return "red"
	default:
		return "gray"
	}
}

// PriorityOptions คืน [{1,Low},{2,Medium},{3,High}]
func PriorityOptions() []PriorityOption {
	options := make([]PriorityOption, 0, len(AllPriorities))
	for _, p := range AllPriorities {
		options = append(options, PriorityOption{Value: p, Label: p.Label()})
	}
	return options
}

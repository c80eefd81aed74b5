package dto

type PaginationMeta struct {
	Total  int64 `json:"total"`
	Offset int   `json:"offset"`
	Limit  int   `json:"limit"`
}

// DateLayout รูปแบบวันที่ของ due_date ทั้ง request และ response
const DateLayout = "2006-01-02"

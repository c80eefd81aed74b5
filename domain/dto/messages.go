package dto

// ข้อความ flash ที่ส่งกลับหลัง mutation สำเร็จ
const (
	MsgTaskCreated     = "Task created successfully!"
	MsgTaskUpdated     = "Task updated successfully!"
	MsgTaskCompleted   = "Task completed!"
	MsgTaskIncomplete  = "Task marked as incomplete!"
	MsgTaskDeleted     = "Task deleted successfully!"
	MsgCategoryCreated = "Category created successfully!"
	MsgCategoryUpdated = "Category updated successfully!"
	MsgCategoryDeleted = "Category deleted successfully!"
)

// ToggleMessage เลือกข้อความตามสถานะหลัง toggle
func ToggleMessage(completed bool) string {
	if completed {
		return MsgTaskCompleted
	}
	return MsgTaskIncomplete
}

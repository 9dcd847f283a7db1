package api

// Request bodies. Dates are "YYYY-MM-DD", times "HH:mm".

type CreateTaskRequest struct {
	Title   string  `json:"title"`
	Date    string  `json:"date"`
	DueTime *string `json:"due_time"`
}

type UpdateTaskRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
	DueTime   *string `json:"due_time"`
}

type CreateWorkoutTypeRequest struct {
	Name     string `json:"name"`
	IsWeekly bool   `json:"is_weekly"`
	MaxTime  *int   `json:"max_time"`
}

type CreateExerciseRequest struct {
	Name       string  `json:"name"`
	Sets       *int    `json:"sets"`
	Reps       *int    `json:"reps"`
	Duration   *string `json:"duration"`
	DayOfWeek  *int    `json:"day_of_week"`
	OrderIndex int     `json:"order_index"`
}

type CreateMindExerciseRequest struct {
	Name       string `json:"name"`
	Time       string `json:"time"`
	Duration   *int   `json:"duration"`
	OrderIndex int    `json:"order_index"`
}

type CreateRoutineRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	DayOfWeek   *int   `json:"day_of_week"`
	OrderIndex  int    `json:"order_index"`
}

type CreateDevGoalRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	TargetHours *int   `json:"target_hours"`
	OrderIndex  int    `json:"order_index"`
}

// ParentID is the exercise, mind exercise or routine the log refers to
type LogCompletionRequest struct {
	ParentID  string `json:"parent_id"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

type PatchCompletionRequest struct {
	Completed *bool `json:"completed"`
}

type LogDevGoalRequest struct {
	DevGoalID  string `json:"dev_goal_id"`
	Date       string `json:"date"`
	HoursSpent int    `json:"hours_spent"`
	Completed  bool   `json:"completed"`
}

type PatchDevGoalLogRequest struct {
	HoursSpent *int  `json:"hours_spent"`
	Completed  *bool `json:"completed"`
}

type WaterIntakeRequest struct {
	Date   string `json:"date"`
	Amount int    `json:"amount"`
	Target *int   `json:"target"`
}

package domain

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is one turn of the assistant conversation. User messages
// are immutable; an assistant message grows while its stream is open and
// freezes once the stream completes.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// UserContext is the activity summary attached to assistant requests so
// replies can reference the user's actual training history.
type UserContext struct {
	TotalPredictions int      `json:"totalPredictions"`
	AvgCalories      int      `json:"avgCalories"`
	FavoriteWorkout  string   `json:"favoriteWorkout"`
	RecentWorkouts   []string `json:"recentWorkouts"`
}

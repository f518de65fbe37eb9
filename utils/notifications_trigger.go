package utils

import (
	"fmt"
	"strconv"
	"strings"

	"habitTrackerAPI/internal/types/habit"
)

// PushMessage is a topic-addressed push notification.
type PushMessage struct {
	Topic string
	Title string
	Body  string
	Data  map[string]string
}

// UserTopic is the FCM topic a user's devices subscribe to.
func UserTopic(userID int64) string {
	return "user-" + strconv.FormatInt(userID, 10)
}

func TargetAchievedPush(h habit.HabitTask) PushMessage {
	target := ""
	if h.TargetValue != nil {
		target = formatQuantity(*h.TargetValue)
		if h.TargetUnit != nil && *h.TargetUnit != "" {
			target += " " + *h.TargetUnit
		}
	}

	body := fmt.Sprintf("You reached your goal for %s!", h.TaskName)
	if target != "" {
		body = fmt.Sprintf("You reached your %s goal for %s!", target, h.TaskName)
	}

	return PushMessage{
		Topic: UserTopic(h.UserID),
		Title: "Target achieved 🎯",
		Body:  body,
		Data: map[string]string{
			"type":     "target_achieved",
			"habitId":  strconv.FormatInt(h.ID, 10),
			"progress": formatQuantity(h.CurrentProgress),
		},
	}
}

func formatQuantity(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// DueReminderPush announces the habits due today. habits must not be empty.
func DueReminderPush(userID int64, habits []habit.HabitTask) PushMessage {
	names := make([]string, 0, len(habits))
	ids := make([]string, 0, len(habits))
	for _, h := range habits {
		names = append(names, h.TaskName)
		ids = append(ids, strconv.FormatInt(h.ID, 10))
	}

	var subject string
	switch n := len(names); {
	case n == 1:
		subject = names[0] + " is"
	case n <= 3:
		subject = strings.Join(names[:n-1], ", ") + " and " + names[n-1] + " are"
	default:
		subject = fmt.Sprintf("%s, %s and %d more are", names[0], names[1], n-2)
	}

	return PushMessage{
		Topic: UserTopic(userID),
		Title: "Habits due today",
		Body:  subject + " due today.",
		Data: map[string]string{
			"type":     "habits_due",
			"habitIds": strings.Join(ids, ","),
		},
	}
}

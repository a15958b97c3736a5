// Package content locates and parses task definitions inside a course's JSON
// content tree and resolves the tree itself through an injected store.
package content

import (
	"encoding/json"
	"strconv"
	"strings"
)

// TaskType labels the grading mode of a task.
type TaskType string

const (
	TaskTypeManual         TaskType = "manual"
	TaskTypeSingleChoice   TaskType = "single_choice"
	TaskTypeMultipleChoice TaskType = "multiple_choice"
	TaskTypeTextAnswer     TaskType = "text_answer"
)

// Task is the parsed form of one task definition. Implementations carry the
// reference answer in the shape their grading mode needs.
type Task interface {
	Type() TaskType
}

// ManualTask always defers to a human reviewer.
type ManualTask struct{}

func (ManualTask) Type() TaskType { return TaskTypeManual }

// UngradedTask stands in for tasks whose definition cannot be auto-graded:
// unknown types, or a reference answer that is absent entirely. Grading it
// behaves like a manual task.
type UngradedTask struct{}

func (UngradedTask) Type() TaskType { return TaskTypeManual }

// SingleChoiceTask expects one 0-based option index.
type SingleChoiceTask struct {
	Correct int
	// Invalid is set when correct_answer was present but not an integer.
	// Such tasks still auto-grade, always at the lowest score.
	Invalid bool
}

func (SingleChoiceTask) Type() TaskType { return TaskTypeSingleChoice }

// MultipleChoiceTask expects a JSON array of 0-based option indexes.
type MultipleChoiceTask struct {
	Correct []int
	// Invalid is set when correct_answer was a string that is not valid JSON.
	Invalid bool
}

func (MultipleChoiceTask) Type() TaskType { return TaskTypeMultipleChoice }

// TextAnswerTask expects free text compared case-insensitively.
type TextAnswerTask struct {
	Correct string
}

func (TextAnswerTask) Type() TaskType { return TaskTypeTextAnswer }

// ParseTask converts a raw task node from the content tree into a typed Task.
// Malformed definitions never fail hard: anything that cannot be auto-graded
// parses into UngradedTask, keeping the submit path available.
func ParseTask(raw map[string]interface{}) Task {
	taskType, _ := raw["type"].(string)
	if taskType == "" {
		taskType = string(TaskTypeManual)
	}

	switch TaskType(taskType) {
	case TaskTypeManual:
		return ManualTask{}
	case TaskTypeSingleChoice:
		return parseSingleChoice(raw["correct_answer"])
	case TaskTypeMultipleChoice:
		return parseMultipleChoice(raw["correct_answer"])
	case TaskTypeTextAnswer:
		correct, _ := raw["correct_answer"].(string)
		correct = strings.ToLower(strings.TrimSpace(correct))
		if correct == "" {
			return UngradedTask{}
		}
		return TextAnswerTask{Correct: correct}
	}
	return UngradedTask{}
}

func parseSingleChoice(raw interface{}) Task {
	switch v := raw.(type) {
	case nil:
		return UngradedTask{}
	case float64:
		return SingleChoiceTask{Correct: int(v)}
	case int:
		return SingleChoiceTask{Correct: v}
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return SingleChoiceTask{Invalid: true}
		}
		return SingleChoiceTask{Correct: parsed}
	}
	return SingleChoiceTask{Invalid: true}
}

func parseMultipleChoice(raw interface{}) Task {
	switch v := raw.(type) {
	case nil:
		return UngradedTask{}
	case string:
		if v == "" {
			return UngradedTask{}
		}
		var decoded interface{}
		if err := json.Unmarshal([]byte(v), &decoded); err != nil {
			return MultipleChoiceTask{Invalid: true}
		}
		return multipleChoiceFromDecoded(decoded)
	default:
		return multipleChoiceFromDecoded(raw)
	}
}

func multipleChoiceFromDecoded(decoded interface{}) Task {
	items, ok := decoded.([]interface{})
	if !ok {
		return UngradedTask{}
	}
	if len(items) == 0 {
		return UngradedTask{}
	}

	correct := make([]int, 0, len(items))
	for _, item := range items {
		switch n := item.(type) {
		case float64:
			correct = append(correct, int(n))
		case int:
			correct = append(correct, n)
		default:
			return MultipleChoiceTask{Invalid: true}
		}
	}
	return MultipleChoiceTask{Correct: correct}
}

// FindTask walks content[topicKey]["lectures"][lectureKey]["tasks"][taskKey]
// and parses the node it lands on. A missing or misshapen level at any depth
// means "task not found", never an error.
func FindTask(tree map[string]interface{}, topicKey, lectureKey, taskKey string) (Task, bool) {
	topic, ok := tree[topicKey].(map[string]interface{})
	if !ok {
		return nil, false
	}
	lectures, ok := topic["lectures"].(map[string]interface{})
	if !ok {
		return nil, false
	}
	lecture, ok := lectures[lectureKey].(map[string]interface{})
	if !ok {
		return nil, false
	}
	tasks, ok := lecture["tasks"].(map[string]interface{})
	if !ok {
		return nil, false
	}
	node, ok := tasks[taskKey].(map[string]interface{})
	if !ok {
		return nil, false
	}
	return ParseTask(node), true
}

// Package grading holds the pure answer-evaluation core: the automatic
// grader and the submission state transitions built on its verdicts.
package grading

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/UtonulVTebe/studyhub-api/internal/content"
)

// Grades on the fixed 1..5 scale.
const (
	scoreWrong   = 1
	scoreLow     = 2
	scorePartial = 3
	scoreClose   = 4
	scoreFull    = 5
)

// Partial-credit thresholds for multiple choice, as a share of the
// reference answers the learner matched.
const (
	closeRatio   = 0.8
	partialRatio = 0.5
)

// Verdict is the grader's judgment of one answer. A nil Score means the
// answer awaits human review; a non-nil Score is always within 1..5, so the
// lowest automatic grade stays distinguishable from "not graded yet".
type Verdict struct {
	Correct bool
	Score   *int
}

func scored(correct bool, score int) Verdict {
	return Verdict{Correct: correct, Score: &score}
}

func deferred() Verdict {
	return Verdict{}
}

// Grade evaluates a raw learner answer against the task definition. It is
// deterministic and total: malformed input degrades to the lowest score or
// to a deferred verdict, it never fails.
func Grade(task content.Task, rawAnswer string) Verdict {
	switch t := task.(type) {
	case content.SingleChoiceTask:
		return gradeSingleChoice(t, rawAnswer)
	case content.MultipleChoiceTask:
		return gradeMultipleChoice(t, rawAnswer)
	case content.TextAnswerTask:
		return gradeTextAnswer(t, rawAnswer)
	}
	// Manual, ungraded, or unknown task shapes defer to a human.
	return deferred()
}

func gradeSingleChoice(task content.SingleChoiceTask, rawAnswer string) Verdict {
	if task.Invalid {
		return scored(false, scoreWrong)
	}

	chosen, err := strconv.Atoi(strings.TrimSpace(rawAnswer))
	if err != nil {
		return scored(false, scoreWrong)
	}

	if chosen == task.Correct {
		return scored(true, scoreFull)
	}
	return scored(false, scoreWrong)
}

func gradeMultipleChoice(task content.MultipleChoiceTask, rawAnswer string) Verdict {
	if task.Invalid {
		return scored(false, scoreWrong)
	}

	var chosen []int
	if err := json.Unmarshal([]byte(rawAnswer), &chosen); err != nil {
		return scored(false, scoreWrong)
	}

	if sameElements(task.Correct, chosen) {
		return scored(true, scoreFull)
	}

	ratio := overlapRatio(task.Correct, chosen)
	switch {
	case ratio >= closeRatio:
		return scored(false, scoreClose)
	case ratio >= partialRatio:
		return scored(false, scorePartial)
	}
	return scored(false, scoreLow)
}

func gradeTextAnswer(task content.TextAnswerTask, rawAnswer string) Verdict {
	answer := strings.ToLower(strings.TrimSpace(rawAnswer))

	if answer == task.Correct {
		return scored(true, scoreFull)
	}
	if strings.Contains(answer, task.Correct) || strings.Contains(task.Correct, answer) {
		return scored(false, scorePartial)
	}
	return scored(false, scoreWrong)
}

// sameElements compares the two selections ignoring order but keeping
// duplicates significant.
func sameElements(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]int(nil), a...)
	bs := append([]int(nil), b...)
	sort.Ints(as)
	sort.Ints(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// overlapRatio is the share of distinct reference answers the learner chose.
func overlapRatio(correct, chosen []int) float64 {
	correctSet := make(map[int]struct{}, len(correct))
	for _, v := range correct {
		correctSet[v] = struct{}{}
	}
	if len(correctSet) == 0 {
		return 0
	}

	chosenSet := make(map[int]struct{}, len(chosen))
	for _, v := range chosen {
		chosenSet[v] = struct{}{}
	}

	matched := 0
	for v := range correctSet {
		if _, ok := chosenSet[v]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(correctSet))
}

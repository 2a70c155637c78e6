package quiz

import "fmt"

// Transcript texts written by the coordinator.
const (
	msgCreating      = "Creating a quiz from your materials..."
	msgFreeTextHint  = "Type your answer below and press Enter."
	msgChoiceHint    = "Pick one of the options."
	msgCorrect       = "Correct!"
	msgIncorrect     = "Incorrect."
	msgEndedNoResult = "Quiz ended."
	msgNoPrompt      = "No response"
)

func msgQuizReady(total int) string {
	return fmt.Sprintf("Quiz ready: %d questions. Let's begin!", total)
}

func msgFinished(correct, total int) string {
	return fmt.Sprintf("Quiz finished! You scored %d out of %d.", correct, total)
}

func msgStartFailed(reason string) string {
	return "Could not start the quiz. " + reason
}

func msgAnswerFailed(reason string) string {
	return "Could not submit your answer. " + reason
}

func msgContinueFailed(reason string) string {
	return "Could not continue the quiz. " + reason
}

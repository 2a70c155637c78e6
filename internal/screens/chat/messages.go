package chat

import "time"

// actionDoneMsg is sent when an assistant call issued by the screen returns.
type actionDoneMsg struct {
	Err   error
	Input bool // the call was a submission or option pick
}

// refreshTickMsg polls the transcript while calls are in flight so
// placeholders and quiz progress show up before the call returns.
type refreshTickMsg time.Time

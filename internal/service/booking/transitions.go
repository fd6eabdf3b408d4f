package booking

// statusTransitions lists, for each status, the statuses it may move to.
// Every status currently reaches every other status.
var statusTransitions = map[Status][]Status{
	StatusPending:   {StatusPending, StatusConfirmed, StatusCancelled, StatusRejected},
	StatusConfirmed: {StatusPending, StatusConfirmed, StatusCancelled, StatusRejected},
	StatusCancelled: {StatusPending, StatusConfirmed, StatusCancelled, StatusRejected},
	StatusRejected:  {StatusPending, StatusConfirmed, StatusCancelled, StatusRejected},
}

var examinationTransitions = map[ExaminationStatus][]ExaminationStatus{
	ExamUnset:   {ExamWaiting, ExamDone},
	ExamWaiting: {ExamWaiting, ExamDone},
	ExamDone:    {ExamWaiting, ExamDone},
}

func canTransition(from, to Status) bool {
	// Records written before statuses were validated may hold anything.
	if !from.Valid() {
		return to.Valid()
	}
	for _, s := range statusTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func canExamine(from, to ExaminationStatus) bool {
	for _, s := range examinationTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

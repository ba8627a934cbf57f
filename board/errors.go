package board

import "fmt"

// JobAlreadyPlacedError - the job is bound to a slot somewhere;
// a job hangs on exactly one board at a time.
type JobAlreadyPlacedError struct {
	JobID   int64
	BoardID int64
}

func (e *JobAlreadyPlacedError) Error() string {
	return fmt.Sprintf("job %d is already placed on board %d", e.JobID, e.BoardID)
}

// JobNotOnBoardError - a move referenced a job the board does not hold.
type JobNotOnBoardError struct {
	JobID   int64
	BoardID int64
}

func (e *JobNotOnBoardError) Error() string {
	return fmt.Sprintf("job %d is not on board %d", e.JobID, e.BoardID)
}

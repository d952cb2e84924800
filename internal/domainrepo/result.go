package domainrepo

import "fmt"

// Outcome tags the result of applying a change to the SSL domain list
type Outcome int

const (
	// OutcomeApplied means the list changed and a commit was created
	OutcomeApplied Outcome = iota + 1
	// OutcomeAlreadyPresent is an add of a domain that is already listed
	OutcomeAlreadyPresent
	// OutcomeNotPresent is a remove of a domain that is not listed
	OutcomeNotPresent
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeAlreadyPresent:
		return "already_present"
	case OutcomeNotPresent:
		return "not_present"
	case OutcomeFailed:
		return "failed"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

type Result struct {
	Outcome  Outcome
	CommitID string
	Err      error
}

func Applied(commitID string) Result {
	return Result{Outcome: OutcomeApplied, CommitID: commitID}
}

func AlreadyPresent() Result {
	return Result{Outcome: OutcomeAlreadyPresent}
}

func NotPresent() Result {
	return Result{Outcome: OutcomeNotPresent}
}

func Failed(err error) Result {
	return Result{Outcome: OutcomeFailed, Err: err}
}

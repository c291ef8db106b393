package xerrors

import (
	"errors"
	"fmt"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

const (
	ErrCodeSuccess uint32 = abcitypes.CodeTypeOK + iota
	ErrCodeGeneric
	ErrCodeInitChain
	ErrCodeCheckTx
	ErrCodeBeginBlock
	ErrCodeDeliverTx
	ErrCodeEndBlock
	ErrCodeCommit
	ErrCodeNotFoundAccount
	ErrCodeInvalidTrx
	ErrCodeNotFoundResult
	ErrCodeInsufficientFund
)

// voting errors
const (
	ErrCodeAlreadyRegistered uint32 = 100 + iota
	ErrCodeVoterIsNotRegistered
	ErrCodeVoteAlreadyCasted
	ErrCodeVoteNotFound
	ErrCodeInvalidVoteAmount
	ErrCodeInvalidUpdateAmount
	ErrCodeTimePeriodTooLow
	ErrCodeProposalIdOverflow
	ErrCodeProposalNotFound
	ErrCodeUnauthorized
	ErrCodeProposalAlreadyEnded
	ErrCodeProposalInProgress
	ErrCodeBalanceAlreadyUnlocked
	ErrCodePassedRemovalThreshold
	ErrCodeOverflow
	ErrCodeBadOrigin
)

const (
	ErrCodeQuery uint32 = 1000 + iota
	ErrCodeInvalidQueryPath
	ErrCodeInvalidQueryParams
	ErrLast
)

var (
	ErrInitChain  = NewWith(ErrCodeInitChain, "InitChain failed")
	ErrCheckTx    = NewWith(ErrCodeCheckTx, "CheckTx failed")
	ErrBeginBlock = NewWith(ErrCodeBeginBlock, "BeginBlock failed")
	ErrDeliverTx  = NewWith(ErrCodeDeliverTx, "DeliverTx failed")
	ErrEndBlock   = NewWith(ErrCodeEndBlock, "EndBlock failed")
	ErrCommit     = NewWith(ErrCodeCommit, "Commit failed")
	ErrQuery      = NewWith(ErrCodeQuery, "query failed")

	ErrNotFoundAccount       = NewWith(ErrCodeNotFoundAccount, "not found account")
	ErrNotFoundResult        = NewWith(ErrCodeNotFoundResult, "not found result")
	ErrInsufficientFund      = NewWith(ErrCodeInsufficientFund, "insufficient fund")
	ErrInvalidTrx            = NewWith(ErrCodeInvalidTrx, "invalid transaction")
	ErrInvalidNonce          = ErrInvalidTrx.Wrap(errors.New("invalid nonce"))
	ErrNegAmount             = ErrInvalidTrx.Wrap(errors.New("negative amount"))
	ErrInvalidTrxType        = ErrInvalidTrx.Wrap(errors.New("wrong transaction type"))
	ErrUnknownTrxType        = ErrInvalidTrx.Wrap(errors.New("unknown transaction type"))
	ErrInvalidTrxPayloadType = ErrInvalidTrx.Wrap(errors.New("wrong transaction payload type"))
	ErrInvalidTrxSig         = ErrInvalidTrx.Wrap(errors.New("invalid signature"))

	ErrAlreadyRegistered      = NewWith(ErrCodeAlreadyRegistered, "voter already registered")
	ErrVoterIsNotRegistered   = NewWith(ErrCodeVoterIsNotRegistered, "voter is not registered")
	ErrVoteAlreadyCasted      = NewWith(ErrCodeVoteAlreadyCasted, "vote already casted")
	ErrVoteNotFound           = NewWith(ErrCodeVoteNotFound, "vote not found")
	ErrInvalidVoteAmount      = NewWith(ErrCodeInvalidVoteAmount, "invalid vote amount")
	ErrInvalidUpdateAmount    = NewWith(ErrCodeInvalidUpdateAmount, "invalid update amount")
	ErrTimePeriodTooLow       = NewWith(ErrCodeTimePeriodTooLow, "time period too low")
	ErrProposalIdOverflow     = NewWith(ErrCodeProposalIdOverflow, "proposal id overflow")
	ErrProposalNotFound       = NewWith(ErrCodeProposalNotFound, "proposal not found")
	ErrUnauthorized           = NewWith(ErrCodeUnauthorized, "unauthorized")
	ErrProposalAlreadyEnded   = NewWith(ErrCodeProposalAlreadyEnded, "proposal already ended")
	ErrProposalInProgress     = NewWith(ErrCodeProposalInProgress, "proposal in progress")
	ErrBalanceAlreadyUnlocked = NewWith(ErrCodeBalanceAlreadyUnlocked, "balance already unlocked")
	ErrPassedRemovalThreshold = NewWith(ErrCodePassedRemovalThreshold, "passed removal threshold")
	ErrOverflow               = NewWith(ErrCodeOverflow, "overflow")
	ErrBadOrigin              = NewWith(ErrCodeBadOrigin, "bad origin")

	ErrInvalidQueryPath   = NewWith(ErrCodeInvalidQueryPath, "invalid query path")
	ErrInvalidQueryParams = NewWith(ErrCodeInvalidQueryParams, "invalid query parameters")
)

type XError interface {
	Code() uint32
	Error() string
	Cause() error
	Wrap(error) XError
	Wrapf(string, ...any) XError
	Unwrap() error
	Is(error) bool
}

type xerror struct {
	code  uint32
	msg   string
	cause error
}

func New(m string) XError {
	return &xerror{
		code: ErrCodeGeneric,
		msg:  m,
	}
}

func NewWith(code uint32, msg string) XError {
	return &xerror{
		code: code,
		msg:  msg,
	}
}

func NewOrdinary(msg string) XError {
	return New(msg)
}

// From converts err to XError. It returns nil when err is nil and
// returns err itself when it is already an XError.
func From(err error) XError {
	if err == nil {
		return nil
	}
	var xerr XError
	if errors.As(err, &xerr) {
		return xerr
	}
	return &xerror{
		code: ErrCodeGeneric,
		msg:  err.Error(),
	}
}

func (e *xerror) Code() uint32 {
	return e.code
}

func (e *xerror) Error() string {
	if e.cause != nil {
		return e.msg + "<<" + e.cause.Error()
	}
	return e.msg
}

func (e *xerror) Cause() error {
	return e.cause
}

func (e *xerror) Unwrap() error {
	return e.Cause()
}

func (e *xerror) Wrap(err error) XError {
	return &xerror{
		code:  e.code,
		msg:   e.msg,
		cause: err,
	}
}

func (e *xerror) Wrapf(format string, args ...any) XError {
	return e.Wrap(fmt.Errorf(format, args...))
}

// Is reports whether target is an XError carrying the same code and message.
// A wrapped sentinel is still matched by errors.Is(wrapped, sentinel).
func (e *xerror) Is(target error) bool {
	t, ok := target.(*xerror)
	if !ok {
		return false
	}
	return e.code == t.code && e.msg == t.msg
}

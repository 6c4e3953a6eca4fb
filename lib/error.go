package lib

import (
	"fmt"
	"math"
)

type ErrorI interface {
	Code() ErrorCode     // Returns the error code
	Module() ErrorModule // Returns the error module
	error                // Implements the built-in error interface
}

var _ ErrorI = &Error{} // Ensures *Error implements ErrorI

type ErrorCode uint32 // Defines a type for error codes

type ErrorModule string // Defines a type for error modules

type Error struct {
	ECode   ErrorCode   `json:"code"`   // Error code
	EModule ErrorModule `json:"module"` // Error module
	Msg     string      `json:"msg"`    // Error message
}

func NewError(code ErrorCode, module ErrorModule, msg string) *Error {
	// Constructs a new Error instance
	return &Error{ECode: code, EModule: module, Msg: msg}
}

// Code() returns the associated error code
func (p *Error) Code() ErrorCode { return p.ECode }

// Module() returns module field
func (p *Error) Module() ErrorModule { return p.EModule }

// String() calls Error()
func (p *Error) String() string { return p.Error() }

// Error() returns a formatted string including module, code, and message
func (p *Error) Error() string {
	return fmt.Sprintf("\nModule:  %s\nCode:    %d\nMessage: %s", p.EModule, p.ECode, p.Msg)
}

const (
	NoCode ErrorCode = math.MaxUint32

	// Main Module
	MainModule ErrorModule = "main"

	// Main Module Error Codes
	CodeJSONMarshal     ErrorCode = 1
	CodeJSONUnmarshal   ErrorCode = 2
	CodeStringToBytes   ErrorCode = 3
	CodeWriteFile       ErrorCode = 4
	CodeReadFile        ErrorCode = 5
	CodeInvalidMemberID ErrorCode = 6
	CodeInvalidArgument ErrorCode = 7

	// Bulletin Module
	BulletinModule ErrorModule = "bulletin"

	// Bulletin Module Error Codes
	CodeUnauthorized        ErrorCode = 1
	CodeNotMember           ErrorCode = 2
	CodeDuplicateCoordinate ErrorCode = 3
	CodeHashMismatch        ErrorCode = 4
	CodeQuorumRejected      ErrorCode = 5
	CodeQuorumTimeout       ErrorCode = 6
	CodeAwaitingReplies     ErrorCode = 7
	CodeMemberExists        ErrorCode = 8
	CodeMemberNotFound      ErrorCode = 9
	CodeNoPendingRound      ErrorCode = 10
	CodeViewTooLarge        ErrorCode = 11
	CodeApprovedHashInvalid ErrorCode = 12

	// Storage Module
	StorageModule ErrorModule = "store"

	// Storage Module Error Codes
	CodeOpenDB       ErrorCode = 1
	CodeCloseDB      ErrorCode = 2
	CodeStoreSet     ErrorCode = 3
	CodeStoreGet     ErrorCode = 4
	CodeStoreDelete  ErrorCode = 5
	CodeStoreIterate ErrorCode = 6
	CodeCorruptEntry ErrorCode = 7
)

// error implementations below for the `lib` package

func newLogError(err error) ErrorI {
	return NewError(NoCode, MainModule, err.Error())
}

func ErrJSONMarshal(err error) ErrorI {
	return NewError(CodeJSONMarshal, MainModule, fmt.Sprintf("json.marshal() failed with err: %s", err.Error()))
}

func ErrJSONUnmarshal(err error) ErrorI {
	return NewError(CodeJSONUnmarshal, MainModule, fmt.Sprintf("json.unmarshal() failed with err: %s", err.Error()))
}

func ErrStringToBytes(err error) ErrorI {
	return NewError(CodeStringToBytes, MainModule, fmt.Sprintf("stringToBytes() failed with err: %s", err.Error()))
}

func ErrWriteFile(err error) ErrorI {
	return NewError(CodeWriteFile, MainModule, fmt.Sprintf("os.WriteFile() failed with err: %s", err.Error()))
}

func ErrReadFile(err error) ErrorI {
	return NewError(CodeReadFile, MainModule, fmt.Sprintf("os.ReadFile() failed with err: %s", err.Error()))
}

func ErrInvalidMemberID() ErrorI {
	return NewError(CodeInvalidMemberID, MainModule, "member id is invalid")
}

func ErrInvalidArgument() ErrorI {
	return NewError(CodeInvalidArgument, MainModule, "the argument is invalid")
}

package repository

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrDuplicateUser       = errors.New("user name is already used")
	ErrEmptyUsername       = errors.New("username is required")
	ErrEmptyPassword       = errors.New("password is required")
	ErrPostNotFound        = errors.New("post not found")
	ErrEmptyContent        = errors.New("content is required")
	ErrContentTooLong      = errors.New("content exceeds 280 characters")
	ErrAlreadyRetweeted    = errors.New("post is already retweeted")
	ErrCommentNotFound     = errors.New("comment not found")
	ErrInvalidReportTarget = errors.New("report target must be post or comment")
	ErrEmptyReason         = errors.New("report reason is required")
	ErrReportNotFound      = errors.New("report not found")
)

package model

import "github.com/google/uuid"

type NotificationSent struct {
	NotificationID uuid.UUID
	Recipient      string
}

func (e NotificationSent) Type() string { return "NotificationSent" }

type NotificationFailed struct {
	NotificationID uuid.UUID
	Recipient      string
	Reason         string
}

func (e NotificationFailed) Type() string { return "NotificationFailed" }

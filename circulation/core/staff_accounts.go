package core

import (
	"time"
)

// StaffAccount is the current state of one staff account.
type StaffAccount struct {
	UserID       UserIDString
	Username     string
	PasswordHash string
	Role         Role
	FullName     string
	Email        string
	OpenedAt     time.Time
	UpdatedAt    time.Time
	Closed       bool
}

// StaffAccounts is the projection of staff account events in opening order.
type StaffAccounts struct {
	order    []UserIDString
	accounts map[UserIDString]*StaffAccount
}

// ProjectStaffAccounts replays staff account events. Other events are ignored.
func ProjectStaffAccounts(history DomainEvents) StaffAccounts {
	s := StaffAccounts{accounts: make(map[UserIDString]*StaffAccount)}

	for _, event := range history {
		switch e := event.(type) {
		case StaffAccountOpened:
			if _, ok := s.accounts[e.UserID]; !ok {
				s.order = append(s.order, e.UserID)
			}

			s.accounts[e.UserID] = &StaffAccount{
				UserID:       e.UserID,
				Username:     e.Username,
				PasswordHash: e.PasswordHash,
				Role:         e.Role,
				FullName:     e.FullName,
				Email:        e.Email,
				OpenedAt:     e.OccurredAt,
				UpdatedAt:    e.OccurredAt,
			}

		case StaffAccountUpdated:
			account, ok := s.accounts[e.UserID]
			if !ok {
				// history filtered by username may start with the rename
				account = &StaffAccount{UserID: e.UserID}
				s.accounts[e.UserID] = account
				s.order = append(s.order, e.UserID)
			}

			account.Username = e.Username
			account.FullName = e.FullName
			account.Email = e.Email
			account.UpdatedAt = e.OccurredAt

			if e.PasswordHash != "" {
				account.PasswordHash = e.PasswordHash
			}

		case StaffAccountClosed:
			if account, ok := s.accounts[e.UserID]; ok {
				account.Closed = true
				account.UpdatedAt = e.OccurredAt
			}
		}
	}

	return s
}

// ByID returns the account with userID, closed or not.
func (s StaffAccounts) ByID(userID UserIDString) (StaffAccount, bool) {
	account, ok := s.accounts[userID]
	if !ok {
		return StaffAccount{}, false
	}

	return *account, true
}

// OpenByUsername returns the open account currently holding username.
func (s StaffAccounts) OpenByUsername(username string) (StaffAccount, bool) {
	for _, userID := range s.order {
		account := s.accounts[userID]
		if !account.Closed && account.Username == username {
			return *account, true
		}
	}

	return StaffAccount{}, false
}

// Open returns all open accounts in opening order.
func (s StaffAccounts) Open() []StaffAccount {
	open := make([]StaffAccount, 0, len(s.order))

	for _, userID := range s.order {
		if account := s.accounts[userID]; !account.Closed {
			open = append(open, *account)
		}
	}

	return open
}

package domain

import "time"

// Collaborator models one employee record of the roster.
type Collaborator struct {
	ID        string
	Name      string
	Email     string
	Role      string
	Status    string
	Unit      string
	PhotoURL  string
	CreatedAt time.Time
}

// Category derives the employment-status category from the raw status text.
func (c Collaborator) Category() Category {
	return ClassifyStatus(c.Status)
}

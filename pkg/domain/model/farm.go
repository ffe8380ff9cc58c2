package model

import "errors"

var ErrFarmNotFound = errors.New("farm not found")

type Farm struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Location string  `json:"location"`
	Type     string  `json:"type,omitempty"`
	Size     string  `json:"size,omitempty"`
	Farmer   string  `json:"farmer,omitempty"`
	Products []int64 `json:"products"`
}

type FarmPatch struct {
	Name     *string `json:"name,omitempty"`
	Location *string `json:"location,omitempty"`
	Type     *string `json:"type,omitempty"`
	Size     *string `json:"size,omitempty"`
	Farmer   *string `json:"farmer,omitempty"`
}

func (p FarmPatch) Apply(farm *Farm) {
	if p.Name != nil {
		farm.Name = *p.Name
	}
	if p.Location != nil {
		farm.Location = *p.Location
	}
	if p.Type != nil {
		farm.Type = *p.Type
	}
	if p.Size != nil {
		farm.Size = *p.Size
	}
	if p.Farmer != nil {
		farm.Farmer = *p.Farmer
	}
}

type FarmRepository interface {
	Update(farm *Farm) error
	Find(id int64) (*Farm, error)
	List() ([]Farm, error)
}

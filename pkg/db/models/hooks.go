package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ids are assigned client-side so the models behave the same on Postgres and
// on the sqlite databases the tests run against.

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(*gorm.DB) error             { ensureID(&u.ID); return nil }
func (r *Region) BeforeCreate(*gorm.DB) error           { ensureID(&r.ID); return nil }
func (m *RegionMember) BeforeCreate(*gorm.DB) error     { ensureID(&m.ID); return nil }
func (c *Category) BeforeCreate(*gorm.DB) error         { ensureID(&c.ID); return nil }
func (a *Activity) BeforeCreate(*gorm.DB) error         { ensureID(&a.ID); return nil }
func (c *CampArea) BeforeCreate(*gorm.DB) error         { ensureID(&c.ID); return nil }
func (e *Event) BeforeCreate(*gorm.DB) error            { ensureID(&e.ID); return nil }
func (p *EventParticipant) BeforeCreate(*gorm.DB) error { ensureID(&p.ID); return nil }
func (g *GearList) BeforeCreate(*gorm.DB) error         { ensureID(&g.ID); return nil }
func (g *GearCategory) BeforeCreate(*gorm.DB) error     { ensureID(&g.ID); return nil }
func (g *GearItem) BeforeCreate(*gorm.DB) error         { ensureID(&g.ID); return nil }
func (l *Like) BeforeCreate(*gorm.DB) error             { ensureID(&l.ID); return nil }
func (c *Comment) BeforeCreate(*gorm.DB) error          { ensureID(&c.ID); return nil }
func (o *AssetOrphan) BeforeCreate(*gorm.DB) error      { ensureID(&o.ID); return nil }

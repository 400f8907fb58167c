package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HealthProfile holds a user's health context consumed during plan generation.
type HealthProfile struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID              primitive.ObjectID `bson:"userId" json:"userId"`
	IsSmoker            bool               `bson:"isSmoker" json:"isSmoker"`
	PreExistingDiseases []string           `bson:"preExistingDiseases,omitempty" json:"preExistingDiseases,omitempty"`
	CurrentMedications  []string           `bson:"currentMedications,omitempty" json:"currentMedications,omitempty"`
	HealthIssues        []string           `bson:"healthIssues,omitempty" json:"healthIssues,omitempty"`
	PhysicalLimitations []string           `bson:"physicalLimitations,omitempty" json:"physicalLimitations,omitempty"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Limitations is the combined limitations list fed to the plan generator:
// physical limitations first, then health issues.
func (p *HealthProfile) Limitations() []string {
	if p == nil {
		return []string{}
	}
	limitations := make([]string, 0, len(p.PhysicalLimitations)+len(p.HealthIssues))
	limitations = append(limitations, p.PhysicalLimitations...)
	limitations = append(limitations, p.HealthIssues...)
	return limitations
}

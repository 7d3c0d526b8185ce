package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	Id                 primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Name               string               `json:"name" bson:"name"`
	Email              string               `json:"email" bson:"email"`
	Password           string               `json:"-" bson:"password"`
	ProfilePicture     string               `json:"profilePicture" bson:"profilePicture"`
	BannerImage        string               `json:"bannerImage" bson:"bannerImage"`
	Headline           string               `json:"headline" bson:"headline"`
	Location           string               `json:"location" bson:"location"`
	Bio                string               `json:"bio" bson:"bio"`
	Skills             []string             `json:"skills" bson:"skills"`
	JobInterests       []string             `json:"jobInterests" bson:"jobInterests"`
	Education          []Education          `json:"education" bson:"education"`
	ResumeUrl          string               `json:"resumeUrl" bson:"resumeUrl"`
	OnboardingComplete bool                 `json:"onboardingComplete" bson:"onboardingComplete"`
	Connections        []primitive.ObjectID `json:"connections" bson:"connections"`
	CreatedAt          time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time            `json:"updatedAt" bson:"updatedAt"`
}

type Education struct {
	School       string `json:"school" bson:"school"`
	Degree       string `json:"degree" bson:"degree"`
	FieldOfStudy string `json:"fieldOfStudy" bson:"fieldOfStudy"`
	StartYear    string `json:"startYear" bson:"startYear"`
	EndYear      string `json:"endYear" bson:"endYear"`
	Description  string `json:"description" bson:"description"`
}

// UserSummary is the projection embedded in populated responses instead of
// the full profile document.
type UserSummary struct {
	Id             primitive.ObjectID `json:"_id" bson:"_id"`
	Name           string             `json:"name" bson:"name"`
	Email          string             `json:"email,omitempty" bson:"email,omitempty"`
	ProfilePicture string             `json:"profilePicture" bson:"profilePicture"`
	Headline       string             `json:"headline,omitempty" bson:"headline,omitempty"`
}

// IsConnectedTo reports whether other is in the user's connections set.
func (u *User) IsConnectedTo(other primitive.ObjectID) bool {
	for _, conn := range u.Connections {
		if conn == other {
			return true
		}
	}
	return false
}

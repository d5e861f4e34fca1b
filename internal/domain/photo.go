package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgressPhoto stores metadata about a progress photo uploaded by a member.
// The actual image resides in S3.
type ProgressPhoto struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MemberID    primitive.ObjectID `bson:"memberId" json:"memberId"`
	S3ObjectKey string             `bson:"s3ObjectKey" json:"-"` // Bucket key - internal use
	FileName    string             `bson:"fileName" json:"fileName"`
	ContentType string             `bson:"contentType" json:"contentType"` // e.g. "image/jpeg"
	Size        int64              `bson:"size" json:"size"`               // Bytes
	Caption     string             `bson:"caption,omitempty" json:"caption,omitempty"`
	UploadedAt  time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}

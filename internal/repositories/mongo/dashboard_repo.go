package mongo

import (
	"context"

	"codeeditor/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const adminSnapshotID = "admin"

// DashboardRepo keeps the latest admin dashboard snapshot as a single document.
type DashboardRepo struct{ col *mongo.Collection }

func NewDashboardRepo(db *mongo.Database) *DashboardRepo {
	return &DashboardRepo{col: db.Collection("dashboards")}
}

func (r *DashboardRepo) SaveAdminSnapshot(ctx context.Context, d *models.AdminDashboard) error {
	d.ID = adminSnapshotID
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": adminSnapshotID}, d, options.Replace().SetUpsert(true))
	return err
}

func (r *DashboardRepo) GetAdminSnapshot(ctx context.Context) (*models.AdminDashboard, error) {
	var d models.AdminDashboard
	if err := r.col.FindOne(ctx, bson.M{"_id": adminSnapshotID}).Decode(&d); err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

package indexes_test

import (
	"testing"

	"github.com/campusclubs/clubhub/internal/app/system/indexes"
	"github.com/campusclubs/clubhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func indexNames(t *testing.T, coll *mongo.Collection) map[string]bool {
	t.Helper()
	ctx := testutil.TestContext(t)

	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
}

func TestEnsureAllIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("first EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}
}

func TestEnsureAllCreatesUserIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names := indexNames(t, db.Collection("users"))
	for _, name := range []string{"uniq_email", "by_club", "by_event"} {
		if !names[name] {
			t.Errorf("expected index %q to exist on users collection", name)
		}
	}
}

func TestEnsureAllCreatesClubIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names := indexNames(t, db.Collection("clubs"))
	for _, name := range []string{"uniq_active_name_ci", "by_head", "by_created"} {
		if !names[name] {
			t.Errorf("expected index %q to exist on clubs collection", name)
		}
	}
}

func TestEnsureAllCreatesEventIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names := indexNames(t, db.Collection("events"))
	for _, name := range []string{"by_club_date", "by_date", "by_creator"} {
		if !names[name] {
			t.Errorf("expected index %q to exist on events collection", name)
		}
	}
}

func TestUniqueEmailEnforced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	if _, err := db.Collection("users").InsertOne(ctx, bson.M{"email": "dup@example.edu"}); err != nil {
		t.Fatalf("insert user failed: %v", err)
	}
	if _, err := db.Collection("users").InsertOne(ctx, bson.M{"email": "dup@example.edu"}); err == nil {
		t.Error("expected duplicate key error for unique index on users.email")
	}
}

func TestInactiveClubNameReusable(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	clubs := db.Collection("clubs")
	if _, err := clubs.InsertOne(ctx, bson.M{"name_ci": "chess club", "is_active": false}); err != nil {
		t.Fatalf("insert inactive club failed: %v", err)
	}
	if _, err := clubs.InsertOne(ctx, bson.M{"name_ci": "chess club", "is_active": true}); err != nil {
		t.Errorf("active club should be able to reuse an inactive club's name: %v", err)
	}
	if _, err := clubs.InsertOne(ctx, bson.M{"name_ci": "chess club", "is_active": true}); err == nil {
		t.Error("expected duplicate key error for second active club with same folded name")
	}
}

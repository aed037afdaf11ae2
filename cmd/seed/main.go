package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pkgtrack/internal/config"
	"pkgtrack/internal/db"
	"pkgtrack/internal/model"
	"pkgtrack/internal/repository"
	"pkgtrack/internal/service"
)

// Seed users for the admin console and the system-manager dashboard. The
// password comes from SEED_PASSWORD (default only suitable for development).
var seedUsers = []model.User{
	{Username: "admin01", Email: "admin01@example.com", Phone: "0800000001", Role: model.RoleAdmin},
	{Username: "win1234", Email: "win1234@example.com", Phone: "0800000002", Role: model.RoleSystemManager},
	{Username: "user01", Email: "user01@example.com", Phone: "0812345678", Role: model.RoleUser},
}

var seedPackages = []model.Package{
	{
		SenderName: "Somchai J.", ReceiverName: "Arthit K.",
		SenderTel: "0811111111", ReceiverTel: "0822222222",
		Address: "99/1 Sukhumvit Rd.", Status: "In_Transit",
		MaterialType: "Box", Province: "Bangkok", PostCode: "10110",
	},
	{
		SenderName: "Nok P.", ReceiverName: "Malee S.",
		SenderTel: "0833333333", ReceiverTel: "0844444444",
		Address: "12 Nimman Rd.", Status: model.StatusOCRFail,
		MaterialType: "Envelope", Province: "Chiang Mai", PostCode: "50200",
	},
	{
		SenderName: "Lek T.", ReceiverName: "Ploy W.",
		SenderTel: "0855555555", ReceiverTel: "0866666666",
		Address: "45 Beach Rd.", Status: "Delivered",
		MaterialType: "Box", Province: "Phuket", PostCode: "83000",
	},
}

func main() {
	logrus.Info("starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logrus.Fatalf("failed to connect to database: %v", err)
	}
	logrus.Info("connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Package{}); err != nil {
		logrus.Fatalf("failed to run migrations: %v", err)
	}
	logrus.Info("database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	packageRepo := repository.NewPackageRepository(gormDB)

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "password"
		logrus.Warn("SEED_PASSWORD not set, using development default")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), service.BcryptCost)
	if err != nil {
		logrus.Fatalf("failed to hash seed password: %v", err)
	}

	created := 0
	for _, u := range seedUsers {
		if _, err := userRepo.FindByUsername(ctx, u.Username); err == nil {
			logrus.Infof("user %s already exists, skipping", u.Username)
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.Fatalf("failed to check user %s: %v", u.Username, err)
		}

		u.Password = string(hash)
		if err := userRepo.Create(ctx, &u); err != nil {
			logrus.Fatalf("failed to create user %s: %v", u.Username, err)
		}
		created++
	}
	logrus.Infof("users seeded: %d new", created)

	seeded := 0
	for i := range seedPackages {
		pkg := seedPackages[i]
		pkg.CreatedTime = time.Now()
		if err := packageRepo.Create(ctx, &pkg); err != nil {
			logrus.Fatalf("failed to create package: %v", err)
		}
		seeded++
	}
	logrus.Infof("packages seeded: %d", seeded)

	logrus.Info("seed completed successfully")
}

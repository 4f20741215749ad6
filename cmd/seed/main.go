// Command seed loads the launch catalogue into the products table.
// Products whose id already exists are left as they are.
package main

import (
	"context"
	"errors"

	"github.com/abdul977/muahibstores/internal/catalog"
	"github.com/abdul977/muahibstores/internal/model"
	"github.com/abdul977/muahibstores/internal/repository"
	"github.com/abdul977/muahibstores/internal/whatsapp"
	"github.com/abdul977/muahibstores/pkg/config"
	"github.com/abdul977/muahibstores/pkg/database"
	"github.com/abdul977/muahibstores/pkg/logger"
	"go.uber.org/zap"
)

const pexels = "https://images.pexels.com/photos/"

func price(v float64) *float64 {
	return &v
}

var launchProducts = []catalog.Product{
	{
		ID:         "i20-ultra",
		Name:       "i20 Ultra Smartwatch",
		Price:      30000,
		Image:      pexels + "393047/pexels-photo-393047.jpeg?auto=compress&cs=tinysrgb&w=800",
		Features:   []string{"7 Interchangeable Straps", "AirPod Included", "Screen Protector", "Fitness Tracking"},
		Category:   "Smartwatch",
		IsFeatured: true,
		IsNew:      true,
	},
	{
		ID:         "mvp110",
		Name:       "MVP110 Smartwatch",
		Price:      25000,
		Image:      pexels + "1034130/pexels-photo-1034130.jpeg?auto=compress&cs=tinysrgb&w=800",
		Features:   []string{"2 Interchangeable Straps", "Basic Package", "Heart Rate Monitor", "Water Resistant"},
		Category:   "Smartwatch",
		IsFeatured: true,
	},
	{
		ID:            "i60-ultra",
		Name:          "i60 Ultra Dual Pack",
		Price:         40000,
		OriginalPrice: price(50000),
		Image:         pexels + "1034130/pexels-photo-1034130.jpeg?auto=compress&cs=tinysrgb&w=800",
		Features:      []string{"2 Smartwatches", "7 Straps", "AirPod Included", "Charger Included"},
		Category:      "Smartwatch",
		IsFeatured:    true,
	},
	{
		ID:         "mvp135",
		Name:       "MVP135 Power Bundle",
		Price:      35000,
		Image:      pexels + "267394/pexels-photo-267394.jpeg?auto=compress&cs=tinysrgb&w=800",
		Features:   []string{"Smartwatch", "Power Bank", "Charger", "4 Straps"},
		Category:   "Smartwatch",
		IsFeatured: true,
	},
	{
		ID:       "3in1-backpack",
		Name:     "3-in-1 Smart Backpack",
		Price:    15000,
		Image:    pexels + "2905238/pexels-photo-2905238.jpeg?auto=compress&cs=tinysrgb&w=800",
		Features: []string{"USB Charging Port", "Anti-theft Design", "Water Resistant", "Laptop Compartment"},
		Category: "Accessories",
		IsNew:    true,
	},
	{
		ID:            "wireless-earbuds",
		Name:          "Premium Wireless Earbuds",
		Price:         18000,
		OriginalPrice: price(25000),
		Image:         pexels + "8534088/pexels-photo-8534088.jpeg?auto=compress&cs=tinysrgb&w=800",
		Features:      []string{"Noise Cancellation", "24H Battery Life", "Touch Controls", "Wireless Charging"},
		Category:      "Audio",
	},
	{
		ID:       "smartphone",
		Name:     "Ultra Pro Smartphone",
		Price:    120000,
		Image:    pexels + "404280/pexels-photo-404280.jpeg?auto=compress&cs=tinysrgb&w=800",
		Features: []string{"128GB Storage", "48MP Camera", "5G Ready", "Fast Charging"},
		Category: "Phone",
	},
	{
		ID:       "kitchen-blender",
		Name:     "Professional Kitchen Blender",
		Price:    22000,
		Image:    pexels + "4518843/pexels-photo-4518843.jpeg?auto=compress&cs=tinysrgb&w=800",
		Features: []string{"1000W Motor", "Multiple Speeds", "Glass Jar", "2 Year Warranty"},
		Category: "Kitchen",
	},
}

func main() {
	cfg, err := config.Load("muahib-seed")
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	db, err := database.InitDB(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.MigrateModels(db, &model.Product{}, &model.WhatsAppNumber{}); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	svc := catalog.NewService(repository.NewProductRepository(db), nil)
	ctx := context.Background()

	var created, skipped int
	for _, p := range launchProducts {
		p.WhatsAppLink = whatsapp.Link(cfg.WhatsApp.BusinessNumber, whatsapp.InquiryMessage(&p))

		_, err := svc.CreateProduct(ctx, p)
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			skipped++
			log.Info("Product already exists", zap.String("product_id", p.ID))
		case err != nil:
			log.Fatal("Failed to seed product", zap.String("product_id", p.ID), zap.Error(err))
		default:
			created++
			log.Info("Product seeded", zap.String("product_id", p.ID))
		}
	}

	log.Info("Seeding finished", zap.Int("created", created), zap.Int("skipped", skipped))
}

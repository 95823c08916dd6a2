package seeders

import (
	"log"
	"oficinadoaluno_go/config"
	"oficinadoaluno_go/database"
	"oficinadoaluno_go/models"
	"oficinadoaluno_go/utils"
)

// Seed runs all seeders
func Seed() {
	log.Println("Starting database seeding...")

	SeedAdminCollaborator()
	SeedFinancialSettings()

	log.Println("Database seeding completed")
}

// SeedAdminCollaborator creates the first admin login when the table is empty
func SeedAdminCollaborator() {
	var count int64
	database.DB.Model(&models.Collaborator{}).Count(&count)
	if count > 0 {
		log.Println("Collaborators already seeded, skipping...")
		return
	}

	password := config.AppConfig.DefaultAdminPassword
	if password == "" {
		var err error
		password, err = utils.GenerateRandomString(16)
		if err != nil {
			log.Printf("Error generating admin password: %v", err)
			return
		}
		log.Printf("Generated admin password: %s (change it after first login)", password)
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		log.Printf("Error hashing admin password: %v", err)
		return
	}

	admin := models.Collaborator{
		Login:        "admin",
		Email:        utils.LoginToEmail("admin", config.AppConfig.AuthEmailDomain),
		PasswordHash: hashed,
		Name:         "Administrador",
		SystemAccess: models.AccessList{"admin"},
		Active:       true,
	}

	if err := database.DB.Create(&admin).Error; err != nil {
		log.Printf("Error seeding admin collaborator: %v", err)
		return
	}

	log.Println("Admin collaborator seeded successfully")
}

// SeedFinancialSettings creates the default category lists when missing
func SeedFinancialSettings() {
	var count int64
	database.DB.Model(&models.FinancialSettings{}).Count(&count)
	if count > 0 {
		log.Println("Financial settings already seeded, skipping...")
		return
	}

	settings := models.FinancialSettings{
		IncomeCategories:    models.StringList{"Créditos", "Mensalidade", "Material", "Outros"},
		ExpenseCategories:   models.StringList{"Remuneração", "Aluguel", "Material", "Impostos", "Outros"},
		CreditsPerClassHour: 1,
	}

	if err := database.DB.Create(&settings).Error; err != nil {
		log.Printf("Error seeding financial settings: %v", err)
		return
	}

	log.Println("Financial settings seeded successfully")
}

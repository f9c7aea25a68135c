package knowledge

import (
	"time"

	"github.com/Shubh1hulk/SIH-Demo/models"
)

// SeedFile returns the built-in knowledge base used when no external data
// file is configured. Disease/symptom cross-references here must stay
// mirrored or New will reject the set.
func SeedFile() File {
	return File{
		Diseases:     seedDiseases(),
		Symptoms:     seedSymptoms(),
		Vaccinations: seedVaccinations(),
		Alerts:       seedAlerts(),
	}
}

func seedDiseases() []models.Disease {
	return []models.Disease{
		{
			ID:          "common-cold",
			Name:        "Common Cold",
			Aliases:     []string{"cold"},
			Symptoms:    []string{"runny nose", "sneezing", "sore throat", "cough"},
			Severity:    models.SeverityLow,
			Description: "A mild viral infection of the nose and throat that clears up on its own within a week or so.",
			Prevention:  "Wash hands frequently, avoid close contact with infected people and do not touch your face with unwashed hands.",
			Treatment:   "Rest, warm fluids and steam inhalation. See a doctor if symptoms last beyond ten days.",
			Contagious:  true,
		},
		{
			ID:          "influenza",
			Name:        "Influenza",
			Aliases:     []string{"flu", "seasonal flu"},
			Symptoms:    []string{"fever", "cough", "body ache", "fatigue", "headache"},
			Severity:    models.SeverityModerate,
			Description: "A contagious respiratory illness caused by influenza viruses, usually with sudden onset of fever and body ache.",
			Prevention:  "Annual flu vaccination, frequent hand washing and covering coughs and sneezes.",
			Treatment:   "Rest, fluids and paracetamol for fever. Antivirals help when started early; consult a doctor for high-risk patients.",
			Contagious:  true,
		},
		{
			ID:          "covid-19",
			Name:        "COVID-19",
			Aliases:     []string{"covid", "corona", "coronavirus"},
			Symptoms:    []string{"fever", "cough", "fatigue", "loss of taste", "difficulty breathing"},
			Severity:    models.SeverityHigh,
			Description: "A respiratory illness caused by the SARS-CoV-2 virus. Most cases are mild but breathing difficulty needs urgent care.",
			Prevention:  "Keep vaccinations up to date, wear a mask in crowded indoor spaces and isolate when symptomatic.",
			Treatment:   "Isolate, rest and monitor oxygen levels. Seek immediate care for breathing difficulty or persistent chest pain.",
			Contagious:  true,
		},
		{
			ID:          "malaria",
			Name:        "Malaria",
			Symptoms:    []string{"fever", "chills", "headache", "sweating", "nausea"},
			Severity:    models.SeverityHigh,
			Description: "A mosquito-borne parasitic disease with cyclical fever and chills. Untreated malaria can become life-threatening.",
			Prevention:  "Sleep under insecticide-treated nets, use repellents and remove standing water around the home.",
			Treatment:   "Requires prescription antimalarial medication. A blood test and doctor consultation are necessary.",
			Contagious:  false,
		},
		{
			ID:          "dengue",
			Name:        "Dengue",
			Aliases:     []string{"dengue fever", "breakbone fever"},
			Symptoms:    []string{"fever", "headache", "joint pain", "rash", "nausea"},
			Severity:    models.SeverityHigh,
			Description: "A mosquito-borne viral infection with high fever, severe headache and joint pain. Severe dengue causes dangerous bleeding.",
			Prevention:  "Prevent mosquito bites during the day, empty water containers weekly and wear covering clothes.",
			Treatment:   "No specific antiviral. Fluids and paracetamol only; avoid aspirin and ibuprofen. Seek care if fever persists.",
			Contagious:  false,
		},
		{
			ID:          "typhoid",
			Name:        "Typhoid",
			Aliases:     []string{"typhoid fever"},
			Symptoms:    []string{"fever", "weakness", "stomach pain", "headache", "loss of appetite"},
			Severity:    models.SeverityHigh,
			Description: "A bacterial infection spread through contaminated food and water, with sustained fever and abdominal symptoms.",
			Prevention:  "Drink safe water, eat freshly cooked food and get the typhoid vaccine in endemic areas.",
			Treatment:   "Needs antibiotics prescribed after diagnosis. Complete the full course even after feeling better.",
			Contagious:  true,
		},
	}
}

func seedSymptoms() []models.Symptom {
	return []models.Symptom{
		{Name: "fever", Synonyms: []string{"high fever", "temperature", "high temperature", "prolonged fever", "bukhar"}, Severity: models.SeverityModerate,
			RelatedDiseases: []string{"Influenza", "COVID-19", "Malaria", "Dengue", "Typhoid"}},
		{Name: "cough", Synonyms: []string{"coughing", "dry cough", "khansi"}, Severity: models.SeverityLow,
			RelatedDiseases: []string{"Common Cold", "Influenza", "COVID-19"}},
		{Name: "headache", Synonyms: []string{"head ache", "severe headache", "head pain"}, Severity: models.SeverityLow,
			RelatedDiseases: []string{"Influenza", "Malaria", "Dengue", "Typhoid"}},
		{Name: "sore throat", Synonyms: []string{"throat pain", "throat irritation"}, Severity: models.SeverityLow,
			RelatedDiseases: []string{"Common Cold"}},
		{Name: "runny nose", Synonyms: []string{"blocked nose", "stuffy nose", "nasal congestion"}, Severity: models.SeverityLow,
			RelatedDiseases: []string{"Common Cold"}},
		{Name: "sneezing", Severity: models.SeverityLow,
			RelatedDiseases: []string{"Common Cold"}},
		{Name: "fatigue", Synonyms: []string{"tiredness", "exhaustion", "feeling tired"}, Severity: models.SeverityLow,
			RelatedDiseases: []string{"Influenza", "COVID-19"}},
		{Name: "body ache", Synonyms: []string{"body pain", "muscle pain", "muscle ache"}, Severity: models.SeverityLow,
			RelatedDiseases: []string{"Influenza"}},
		{Name: "chills", Synonyms: []string{"shivering"}, Severity: models.SeverityModerate,
			RelatedDiseases: []string{"Malaria"}},
		{Name: "sweating", Synonyms: []string{"night sweats"}, Severity: models.SeverityLow,
			RelatedDiseases: []string{"Malaria"}},
		{Name: "nausea", Synonyms: []string{"feeling sick", "queasy"}, Severity: models.SeverityModerate,
			RelatedDiseases: []string{"Malaria", "Dengue"}},
		{Name: "vomiting", Synonyms: []string{"throwing up", "puking"}, Severity: models.SeverityModerate},
		{Name: "diarrhea", Synonyms: []string{"loose motion", "loose motions", "diarrhoea"}, Severity: models.SeverityModerate},
		{Name: "joint pain", Synonyms: []string{"joint ache", "joint pains"}, Severity: models.SeverityModerate,
			RelatedDiseases: []string{"Dengue"}},
		{Name: "rash", Synonyms: []string{"skin rash", "red spots"}, Severity: models.SeverityModerate,
			RelatedDiseases: []string{"Dengue"}},
		{Name: "loss of taste", Synonyms: []string{"loss of smell", "cannot taste", "cannot smell"}, Severity: models.SeverityModerate,
			RelatedDiseases: []string{"COVID-19"}},
		{Name: "weakness", Synonyms: []string{"feeling weak", "kamzori"}, Severity: models.SeverityModerate,
			RelatedDiseases: []string{"Typhoid"}},
		{Name: "stomach pain", Synonyms: []string{"abdominal pain", "stomach ache", "pet dard"}, Severity: models.SeverityModerate,
			RelatedDiseases: []string{"Typhoid"}},
		{Name: "loss of appetite", Synonyms: []string{"not hungry", "no appetite"}, Severity: models.SeverityLow,
			RelatedDiseases: []string{"Typhoid"}},
		{Name: "dizziness", Synonyms: []string{"feeling dizzy", "lightheaded"}, Severity: models.SeverityModerate},
		{Name: "wheezing", Synonyms: []string{"whistling breath"}, Severity: models.SeverityHigh},
		{Name: "chest pain", Synonyms: []string{"chest tightness", "pain in chest"}, Severity: models.SeverityCritical},
		{Name: "difficulty breathing", Synonyms: []string{"breathlessness", "shortness of breath", "trouble breathing", "cannot breathe"}, Severity: models.SeverityCritical,
			RelatedDiseases: []string{"COVID-19"}},
	}
}

func seedVaccinations() []models.VaccinationSchedule {
	return []models.VaccinationSchedule{
		{
			Vaccine:  "BCG",
			Protects: []string{"Tuberculosis"},
			Doses:    []models.VaccineDose{{AgeMonths: 0, Label: "At birth"}},
			Notes:    "Single dose, usually given before discharge from the birth facility.",
		},
		{
			Vaccine:  "OPV",
			Protects: []string{"Polio"},
			Doses: []models.VaccineDose{
				{AgeMonths: 0, Label: "At birth"},
				{AgeMonths: 2, Label: "6 weeks"},
				{AgeMonths: 3, Label: "10 weeks"},
				{AgeMonths: 4, Label: "14 weeks"},
			},
			Notes: "Oral polio drops, also given during national immunization days.",
		},
		{
			Vaccine:  "DPT",
			Protects: []string{"Diphtheria", "Pertussis", "Tetanus"},
			Doses: []models.VaccineDose{
				{AgeMonths: 2, Label: "6 weeks"},
				{AgeMonths: 3, Label: "10 weeks"},
				{AgeMonths: 4, Label: "14 weeks"},
				{AgeMonths: 18, Label: "16-24 months booster"},
				{AgeMonths: 66, Label: "5-6 years booster"},
			},
		},
		{
			Vaccine:  "Hepatitis B",
			Protects: []string{"Hepatitis B"},
			Doses: []models.VaccineDose{
				{AgeMonths: 0, Label: "At birth"},
				{AgeMonths: 2, Label: "6 weeks"},
				{AgeMonths: 4, Label: "14 weeks"},
			},
		},
		{
			Vaccine:  "Measles",
			Protects: []string{"Measles", "Rubella"},
			Doses: []models.VaccineDose{
				{AgeMonths: 9, Label: "9 months"},
				{AgeMonths: 18, Label: "16-24 months"},
			},
			Notes: "Given as the combined MR vaccine in most states.",
		},
	}
}

func seedAlerts() []models.OutbreakAlert {
	return []models.OutbreakAlert{
		{
			ID:         "alert-dengue-delhi",
			Disease:    "Dengue",
			Region:     "Delhi",
			AlertLevel: models.SeverityHigh,
			Message:    "Dengue cases are rising after the monsoon. Remove standing water and use mosquito protection during the day.",
			IssuedAt:   time.Date(2025, time.September, 12, 0, 0, 0, 0, time.UTC),
			Active:     true,
		},
		{
			ID:         "alert-influenza-mumbai",
			Disease:    "Influenza",
			Region:     "Mumbai",
			AlertLevel: models.SeverityModerate,
			Message:    "Seasonal influenza is circulating widely. Vaccination is advised for the elderly and people with chronic illness.",
			IssuedAt:   time.Date(2025, time.August, 28, 0, 0, 0, 0, time.UTC),
			Active:     true,
		},
		{
			ID:         "alert-chikungunya-pune",
			Disease:    "Chikungunya",
			Region:     "Pune",
			AlertLevel: models.SeverityModerate,
			Message:    "Chikungunya cases reported in several wards. Watch for sudden fever with joint pain and consult a doctor early.",
			IssuedAt:   time.Date(2025, time.August, 5, 0, 0, 0, 0, time.UTC),
			Active:     true,
		},
	}
}

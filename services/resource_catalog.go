package services

import (
	"strings"

	"github.com/zjkm666/ust-legazpi-mhs/models"
)

// ResourceCatalog is the static catalog of mental-health resources,
// loaded once at startup and shared read-only. Entries carry stable slug
// IDs so bookmarks survive catalog edits; nothing is addressed by
// position.
type ResourceCatalog struct {
	resources []models.Resource
	byID      map[string]int
	types     []string
}

func NewResourceCatalog() *ResourceCatalog {
	c := &ResourceCatalog{
		resources: defaultResources,
		byID:      make(map[string]int, len(defaultResources)),
	}
	seen := map[string]bool{}
	for i, r := range c.resources {
		c.byID[r.ID] = i
		if !seen[r.Type] {
			seen[r.Type] = true
			c.types = append(c.types, r.Type)
		}
	}
	return c
}

// All returns a copy of every catalog entry.
func (c *ResourceCatalog) All() []models.Resource {
	return append([]models.Resource(nil), c.resources...)
}

// Get looks an entry up by its stable ID.
func (c *ResourceCatalog) Get(id string) (models.Resource, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Resource{}, false
	}
	return c.resources[i], true
}

// Filter narrows the catalog by resource type and a free-text search over
// name, type and specialties.
func (c *ResourceCatalog) Filter(resourceType, search string) []models.Resource {
	var out []models.Resource
	needle := strings.ToLower(search)
	for _, r := range c.resources {
		if resourceType != "" && resourceType != "all" && r.Type != resourceType {
			continue
		}
		if needle != "" && !matchesResource(r, needle) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesResource(r models.Resource, needle string) bool {
	if strings.Contains(strings.ToLower(r.Name), needle) ||
		strings.Contains(strings.ToLower(r.Type), needle) {
		return true
	}
	for _, s := range r.Specialties {
		if strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

// Types returns the distinct resource types in catalog order.
func (c *ResourceCatalog) Types() []string {
	return append([]string(nil), c.types...)
}

// CrisisContacts returns the hotline list shown with support prompts.
func (c *ResourceCatalog) CrisisContacts() []models.CrisisContact {
	return append([]models.CrisisContact(nil), crisisContacts...)
}

// EducationalResources returns the self-help library.
func (c *ResourceCatalog) EducationalResources() []models.EducationalResource {
	return append([]models.EducationalResource(nil), educationalResources...)
}

var defaultResources = []models.Resource{
	{
		ID:          "ust-legazpi-ogt",
		Name:        "UST-Legazpi Office of Guidance and Testing",
		Type:        "University Counseling",
		Address:     "Aquinas University Campus, Rawis, Legazpi City",
		Phone:       "(052) 482-0203 local 312",
		Email:       "ogt@ust-legazpi.edu.ph",
		Specialties: []string{"Student Counseling", "Academic Support", "Career Guidance"},
		Cost:        "Free for students",
		Hours:       "Monday-Friday 7:30am-5:30pm",
		Rating:      4.5,
	},
	{
		ID:          "dr-tan-clinic",
		Name:        "Dr. Tan Mental Health Clinic",
		Type:        "Private Practice",
		Address:     "Estevez Street, Legazpi City",
		Phone:       "Contact via UST Hospital",
		Specialties: []string{"General Psychiatry", "Depression", "Anxiety"},
		Cost:        "₱1,500 per session",
		Hours:       "By appointment",
		Rating:      4.2,
	},
	{
		ID:          "clinica-legazpi-cabacang",
		Name:        "Clinica Legazpi - Dr. Cabacang",
		Type:        "Mental Health Clinic",
		Address:     "Legazpi City",
		Specialties: []string{"Clinical Psychology", "Therapy", "Mental Health Assessment"},
		Cost:        "Varies",
		Hours:       "By appointment",
		Rating:      4.0,
	},
	{
		ID:          "ust-legazpi-psychiatry",
		Name:        "UST-Legazpi Hospital Psychiatry Department",
		Type:        "Hospital Service",
		Address:     "UST-Legazpi Hospital, Legazpi City",
		Phone:       "(052) 482-0234",
		Specialties: []string{"Psychiatry", "Crisis Intervention", "Inpatient Care"},
		Cost:        "According to PhilHealth rates",
		Hours:       "24/7 emergency, scheduled appointments",
		Rating:      4.3,
	},
	{
		ID:          "legazpi-city-mental-health",
		Name:        "Legazpi City Mental Health Unit",
		Type:        "Government Service",
		Address:     "Legazpi City Health Office, Legazpi City",
		Phone:       "(052) 480-2234",
		Specialties: []string{"Community Mental Health", "Basic Counseling", "Referrals"},
		Cost:        "Free",
		Hours:       "Monday-Friday 8:00am-5:00pm",
		Rating:      3.8,
	},
}

var crisisContacts = []models.CrisisContact{
	{Name: "National Crisis Hotline", Number: "1553", Description: "24/7 crisis intervention and suicide prevention"},
	{Name: "UST-Legazpi Security", Number: "(052) 482-0203", Description: "Campus emergency response"},
	{Name: "Legazpi City Emergency", Number: "911", Description: "Local emergency services"},
	{Name: "DOH Mental Health Hotline", Number: "1553", Description: "Department of Health crisis support"},
}

var educationalResources = []models.EducationalResource{
	{
		Title:   "Understanding Mental Health",
		Type:    "Article",
		Content: "Basic information about mental health, common conditions, and when to seek help. Learn about the importance of mental wellness and how to recognize signs of common mental health issues.",
	},
	{
		Title:   "Stress Management Techniques",
		Type:    "Guide",
		Content: "Practical strategies for managing academic and personal stress. Includes breathing exercises, time management tips, and healthy coping mechanisms.",
	},
	{
		Title:   "Building Resilience",
		Type:    "Interactive Module",
		Content: "Self-paced learning on developing emotional resilience and coping skills. Explore techniques for bouncing back from challenges and building mental strength.",
	},
	{
		Title:   "Sleep and Mental Health",
		Type:    "Video Series",
		Content: "Educational videos on the connection between sleep and psychological well-being. Learn about healthy sleep habits and their impact on mental health.",
	},
	{
		Title:   "Managing Anxiety in College",
		Type:    "Workbook",
		Content: "Comprehensive guide specifically designed for college students dealing with anxiety. Includes practical exercises and coping strategies.",
	},
}

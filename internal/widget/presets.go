package widget

// Preset is a named bundle of attributes tuned for one kind of site.
type Preset struct {
	Name        string     `json:"name"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Attributes  Attributes `json:"attributes"`
}

// Apply overlays the preset on declared attributes. Attributes the preset
// does not set keep their declared values.
func (p Preset) Apply(attrs Attributes) Attributes {
	return attrs.Merge(p.Attributes)
}

var presets = []Preset{
	{
		Name:        "ecommerce",
		Title:       "E-commerce Store",
		Description: "Perfect for online shops and retail",
		Attributes: Attributes{
			AttrPrimaryColor:   "#7C3AED",
			AttrAccentColor:    "#EC4899",
			AttrWelcomeMessage: "Hi! Looking for something special? I'm here to help! 🛍️",
			AttrTeaserMessage:  "Need help finding the perfect item?",
			AttrTriggerText:    "Shop Assistant",
			AttrTriggerIcon:    "🛒",
			AttrHeaderTitle:    "Shopping Help",
			AttrPlaceholder:    "Ask about products, sizes, shipping...",
		},
	},
	{
		Name:        "restaurant",
		Title:       "Restaurant & Food",
		Description: "Menus, orders and reservations",
		Attributes: Attributes{
			AttrPrimaryColor:   "#EA580C",
			AttrAccentColor:    "#DC2626",
			AttrWelcomeMessage: "Hungry? I can help with our menu, orders, and reservations! 🍽️",
			AttrTeaserMessage:  "Craving something delicious?",
			AttrTriggerText:    "Order Help",
			AttrTriggerIcon:    "🍕",
			AttrHeaderTitle:    "Restaurant Assistant",
			AttrPlaceholder:    "Ask about menu, allergies, delivery...",
		},
	},
	{
		Name:        "healthcare",
		Title:       "Healthcare",
		Description: "Appointments, services and patient questions",
		Attributes: Attributes{
			AttrPrimaryColor:   "#10B981",
			AttrAccentColor:    "#14B8A6",
			AttrWelcomeMessage: "Hello! I'm here to help with appointments, services, and health questions 🩺",
			AttrTeaserMessage:  "Need help with health services?",
			AttrTriggerText:    "Health Assistant",
			AttrTriggerIcon:    "🏥",
			AttrHeaderTitle:    "Medical Support",
			AttrPlaceholder:    "Ask about appointments, services...",
		},
	},
	{
		Name:        "travel",
		Title:       "Travel & Tourism",
		Description: "Destinations, bookings and trip planning",
		Attributes: Attributes{
			AttrPrimaryColor:   "#0EA5E9",
			AttrAccentColor:    "#6366F1",
			AttrWelcomeMessage: "Ready for your next adventure? Let me help plan your perfect trip! 🌍",
			AttrTeaserMessage:  "Planning your next getaway?",
			AttrTriggerText:    "Travel Guide",
			AttrTriggerIcon:    "✈️",
			AttrHeaderTitle:    "Travel Assistant",
			AttrPlaceholder:    "Ask about destinations, bookings...",
		},
	},
	{
		Name:        "saas",
		Title:       "SaaS & Tech",
		Description: "Product support and onboarding",
		Attributes: Attributes{
			AttrPrimaryColor:   "#8B5CF6",
			AttrAccentColor:    "#A855F7",
			AttrWelcomeMessage: "Need help getting started? I'm your tech support companion! ⚡",
			AttrTeaserMessage:  "Questions about our platform?",
			AttrTriggerText:    "Get Support",
			AttrTriggerIcon:    "💻",
			AttrHeaderTitle:    "Tech Support",
			AttrPlaceholder:    "Ask about features, bugs, integrations...",
		},
	},
	{
		Name:        "realestate",
		Title:       "Real Estate",
		Description: "Listings, viewings and mortgages",
		Attributes: Attributes{
			AttrPrimaryColor:   "#F59E0B",
			AttrAccentColor:    "#F97316",
			AttrWelcomeMessage: "Looking for your dream home? I'm here to help you find it! 🏡",
			AttrTeaserMessage:  "Ready to find your perfect home?",
			AttrTriggerText:    "Property Help",
			AttrTriggerIcon:    "🏠",
			AttrHeaderTitle:    "Real Estate Guide",
			AttrPlaceholder:    "Ask about properties, mortgages...",
		},
	},
}

// Presets returns all presets.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// PresetByName looks a preset up by name.
func PresetByName(name string) (Preset, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

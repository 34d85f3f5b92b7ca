package ruleset

// Rule maps a required keyword set to a canned reply. Every keyword
// must appear in the normalized utterance for the rule to fire.
type Rule struct {
	ID       string   `json:"id"`
	Keywords []string `json:"keywords"`
	Reply    string   `json:"reply"`
	Steps    []string `json:"steps,omitempty"`
}

// RuleSet is an ordered rule table plus its fallback templates.
// Table order is precedence: the first fully satisfied rule wins.
type RuleSet struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Rules       []Rule   `json:"rules"`
	Fallbacks   []string `json:"fallbacks"`
}

// Seed provides the default rule sets for the chat and voice surfaces.
func Seed() []RuleSet {
	return []RuleSet{
		{
			ID:          "support",
			Name:        "Customer Support",
			Description: "Step-by-step guidance for orders, returns, group shopping and voice features.",
			Rules: []Rule{
				{
					ID:       "track-order",
					Keywords: []string{"order"},
					Reply:    "I can help you track your order! Here's how to check your order status:",
					Steps: []string{
						"Go to 'My Orders' in your account menu",
						"Find your order number",
						"Click on 'Track Order' button",
						"View real-time delivery status",
						"Set up delivery notifications",
					},
				},
				{
					ID:       "track-order-alias",
					Keywords: []string{"track"},
					Reply:    "I can help you track your order! Here's how to check your order status:",
					Steps: []string{
						"Go to 'My Orders' in your account menu",
						"Find your order number",
						"Click on 'Track Order' button",
						"View real-time delivery status",
						"Set up delivery notifications",
					},
				},
				{
					ID:       "return-item",
					Keywords: []string{"return"},
					Reply:    "I'll guide you through the return process:",
					Steps: []string{
						"Navigate to 'Order History'",
						"Select the item you want to return",
						"Choose return reason",
						"Print the return label",
						"Package and ship the item",
						"Track your refund status",
					},
				},
				{
					ID:       "return-item-alias",
					Keywords: []string{"refund"},
					Reply:    "I'll guide you through the return process:",
					Steps: []string{
						"Navigate to 'Order History'",
						"Select the item you want to return",
						"Choose return reason",
						"Print the return label",
						"Package and ship the item",
						"Track your refund status",
					},
				},
				{
					ID:       "group-shopping",
					Keywords: []string{"group"},
					Reply:    "Let me help you with group shopping! Here's how to create a shared cart:",
					Steps: []string{
						"Click on 'Group Shopping' in the menu",
						"Create a new shopping lobby",
						"Share the invite code with friends",
						"Add items to the shared cart",
						"Review final cart as host",
						"Complete payment for the group",
					},
				},
				{
					ID:       "group-shopping-alias",
					Keywords: []string{"cart"},
					Reply:    "Let me help you with group shopping! Here's how to create a shared cart:",
					Steps: []string{
						"Click on 'Group Shopping' in the menu",
						"Create a new shopping lobby",
						"Share the invite code with friends",
						"Add items to the shared cart",
						"Review final cart as host",
						"Complete payment for the group",
					},
				},
				{
					ID:       "voice-help",
					Keywords: []string{"voice"},
					Reply:    "Voice features make shopping hands-free! Here's how to use voice commands:",
					Steps: []string{
						"Say 'Hey SmartCart' to activate",
						"Use commands like 'Add milk to cart'",
						"Ask 'Where is my order?' for tracking",
						"Say 'Checkout' to complete purchase",
						"Voice search: 'Find organic apples'",
					},
				},
				{
					ID:       "voice-help-alias",
					Keywords: []string{"speak"},
					Reply:    "Voice features make shopping hands-free! Here's how to use voice commands:",
					Steps: []string{
						"Say 'Hey SmartCart' to activate",
						"Use commands like 'Add milk to cart'",
						"Ask 'Where is my order?' for tracking",
						"Say 'Checkout' to complete purchase",
						"Voice search: 'Find organic apples'",
					},
				},
			},
			Fallbacks: []string{
				"I understand your question. Let me provide you with the best solution based on our knowledge base.",
				"That's a great question! I'm here to help you find the right answer.",
				"Thank you for reaching out. I'll guide you through this step by step.",
				"I can definitely help you with that. Let me walk you through the process.",
			},
		},
		{
			ID:          "voice",
			Name:        "Voice Commands",
			Description: "Short spoken-command responses for the hands-free assistant.",
			Rules: []Rule{
				{
					ID:       "voice-add-to-cart",
					Keywords: []string{"add", "cart"},
					Reply:    "I've added the item to your cart. Your cart now has 3 items. Would you like to continue shopping or checkout?",
				},
				{
					ID:       "voice-where-order",
					Keywords: []string{"where", "order"},
					Reply:    "Your order #12345 is currently out for delivery and should arrive within the next 2 hours. You can track it in real-time from your delivery tracking page.",
				},
				{
					ID:       "voice-find",
					Keywords: []string{"find"},
					Reply:    "I found several organic apple varieties available. Would you like me to show you the results or add a specific type to your cart?",
				},
				{
					ID:       "voice-search",
					Keywords: []string{"search"},
					Reply:    "I found several organic apple varieties available. Would you like me to show you the results or add a specific type to your cart?",
				},
				{
					ID:       "voice-deals",
					Keywords: []string{"deals"},
					Reply:    "Today's special deals include 20% off organic produce, buy-one-get-one-free on dairy products, and free delivery on orders over $50. Would you like to see more details?",
				},
				{
					ID:       "voice-specials",
					Keywords: []string{"special"},
					Reply:    "Today's special deals include 20% off organic produce, buy-one-get-one-free on dairy products, and free delivery on orders over $50. Would you like to see more details?",
				},
				{
					ID:       "voice-checkout",
					Keywords: []string{"checkout"},
					Reply:    "Your cart total is $47.89 including tax. I can process your payment using your saved payment method, or would you prefer to review the items first?",
				},
				{
					ID:       "voice-remove",
					Keywords: []string{"remove"},
					Reply:    "I've removed the item from your cart. Your updated cart total is $31.94. Is there anything else you'd like to modify?",
				},
			},
			Fallbacks: []string{
				"How can I help you with your shopping today?",
			},
		},
	}
}

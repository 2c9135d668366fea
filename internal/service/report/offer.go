package report

import (
	"fmt"
	"strings"

	"github.com/zhouzirui/eureka/backend/internal/model/chat"
	"github.com/zhouzirui/eureka/backend/internal/model/persona"
)

type offerPayload struct {
	Title                  string                 `json:"title"`
	CoreOutcome            string                 `json:"coreOutcome"`
	Features               []string               `json:"features"`
	Delivery               string                 `json:"delivery"`
	Format                 string                 `json:"format"`
	PricePoint             string                 `json:"pricePoint"`
	USP                    string                 `json:"USP"`
	TargetAudience         string                 `json:"targetAudience"`
	ProblemsSolved         []string               `json:"problemsSolved"`
	MarketPositioning      string                 `json:"marketPositioning"`
	CompetitiveAdvantage   string                 `json:"competitiveAdvantage"`
	MarketingOpportunities marketingOpportunities `json:"marketingOpportunities"`
	ValueJustification     string                 `json:"valueJustification"`
}

type marketingOpportunities struct {
	PrimaryMessage    string   `json:"primaryMessage"`
	SecondaryMessages []string `json:"secondaryMessages"`
}

type offerSection struct {
	Icon  string
	Title string
	Field string
	What  string
	Why   string
	Item  string
}

var offerSections = []offerSection{
	{
		Icon: "💼", Title: "OFFER NAME & IDENTITY", Field: "product_name",
		What: "The official name and brand identity of your product, service, or offer",
		Why:  "This becomes the foundation of your brand recognition and marketing efforts. It's how customers will refer to and remember your solution.",
	},
	{
		Icon: "🌟", Title: "CORE TRANSFORMATION & OUTCOME", Field: "core_transformation",
		What: "The primary benefit, result, or change your customers experience after using your offer",
		Why:  "This is your main value proposition - the \"what's in it for me\" that drives customer decisions. It should be specific, measurable, and emotionally compelling.",
	},
	{
		Icon: "📦", Title: "KEY FEATURES & DELIVERABLES", Field: "features", Item: "Feature",
		What: "The specific components, tools, resources, or elements included in your offer",
		Why:  "Features show customers exactly what they're getting for their investment. Each feature should directly support the core transformation.",
	},
	{
		Icon: "🚚", Title: "DELIVERY METHOD & EXPERIENCE", Field: "delivery_method",
		What: "How, when, and where your customers receive and experience your offer",
		Why:  "Delivery method sets customer expectations about timing, accessibility, and the overall experience. It affects perceived value and customer satisfaction.",
	},
	{
		Icon: "🧩", Title: "FORMAT & STRUCTURE", Field: "format",
		What: "The organizational structure and type of your offer",
		Why:  "Format helps customers understand the commitment level, time investment, and how the offer fits into their lifestyle or business operations.",
	},
	{
		Icon: "💰", Title: "PRICING & PAYMENT STRUCTURE", Field: "pricing",
		What: "The complete cost breakdown, payment options, and value tiers",
		Why:  "Pricing communicates value, positions you in the market, and determines accessibility. Clear pricing builds trust and helps customers make informed decisions.",
	},
	{
		Icon: "🧠", Title: "UNIQUE SELLING PROPOSITION (USP)", Field: "unique_value",
		What: "What makes your offer different, better, or more valuable than alternatives",
		Why:  "Your USP creates competitive advantage, justifies pricing, and gives customers a compelling reason to choose you over competitors or doing nothing.",
	},
	{
		Icon: "🎯", Title: "TARGET AUDIENCE & MARKET", Field: "target_audience",
		What: "The specific group of people who need and will benefit most from your offer",
		Why:  "Clear target audience definition ensures your marketing reaches the right people, improves conversion rates, and helps you create more relevant messaging.",
	},
	{
		Icon: "🔥", Title: "PROBLEMS SOLVED & PAIN POINTS", Field: "problems_solved", Item: "Problem",
		What: "The specific challenges, frustrations, or obstacles your offer eliminates or reduces",
		Why:  "Understanding problems helps you communicate value, create urgency, and show customers you truly understand their situation.",
	},
}

// Offer renders the offer clarifier report.
func Offer(_ persona.Persona, fields *chat.Fields) string {
	name := fields.Get("product_name")
	core := fields.Get("core_transformation")
	features := fields.Get("features")
	format := fields.Get("format")
	pricing := fields.Get("pricing")
	usp := fields.Get("unique_value")
	audience := fields.Get("target_audience")
	problems := fields.Get("problems_solved")

	positioning := fmt.Sprintf("%s is positioned as a %s that delivers %s to %s who struggle with %s",
		textOr(name, "Your offer"), textOr(format, "solution"), textOr(core, "value"),
		textOr(audience, "customers"), joinedOr(problems, "challenges"))
	advantage := textOr(usp, "Your unique approach and value delivery")
	primary := fmt.Sprintf("%s for %s", textOr(core, "Value"), textOr(audience, "customers"))
	justification := fmt.Sprintf("Your pricing of %s is justified by %s and %s",
		textOr(pricing, "your price point"), textOr(core, "the value you provide"),
		joinedOr(features, "your features"))

	payload := offerPayload{
		Title:                fields.Text("product_name"),
		CoreOutcome:          fields.Text("core_transformation"),
		Features:             list(features),
		Delivery:             fields.Text("delivery_method"),
		Format:               fields.Text("format"),
		PricePoint:           fields.Text("pricing"),
		USP:                  fields.Text("unique_value"),
		TargetAudience:       fields.Text("target_audience"),
		ProblemsSolved:       list(problems),
		MarketPositioning:    positioning,
		CompetitiveAdvantage: advantage,
		MarketingOpportunities: marketingOpportunities{
			PrimaryMessage:    primary,
			SecondaryMessages: list(features),
		},
		ValueJustification: justification,
	}

	var b strings.Builder
	b.WriteString("#### ✅ OFFER CLARIFIER – ENHANCED OUTCOME SUMMARY REPORT\n\n")
	b.WriteString("**🎯 COMPLETE OFFER BREAKDOWN WITH DETAILED EXPLANATIONS**\n\n")

	for _, s := range offerSections {
		fmt.Fprintf(&b, "**%s %s**\n", s.Icon, s.Title)
		fmt.Fprintf(&b, "**What This Is**: %s\n", s.What)
		v := fields.Get(s.Field)
		if s.Item != "" {
			fmt.Fprintf(&b, "**Your Answer**:\n%s\n", numbered(v, s.Item))
		} else {
			fmt.Fprintf(&b, "**Your Answer**: %s\n", textOr(v, NotSpecified))
		}
		fmt.Fprintf(&b, "**Why This Matters**: %s\n\n", s.Why)
	}

	b.WriteString("---\n\n#### 📊 STRATEGIC ANALYSIS & INSIGHTS\n\n")
	fmt.Fprintf(&b, "**🎯 MARKET POSITIONING SUMMARY**\n**Your Offer**: %s\n\n", positioning)
	fmt.Fprintf(&b, "**💡 COMPETITIVE ADVANTAGE**\n**What Sets You Apart**: %s - This creates a unique market position that competitors cannot easily replicate.\n\n", advantage)
	fmt.Fprintf(&b, "**🚀 MARKETING OPPORTUNITIES**\n**Primary Message**: %s\n**Secondary Messages**:\n- %s\n\n", primary, joinedOr(features, "Feature benefits"))
	fmt.Fprintf(&b, "**💰 VALUE JUSTIFICATION**\n**Price Point Analysis**: %s\n\n", justification)

	b.WriteString(offerClosing)
	b.WriteString(jsonBlock(payload))
	return b.String()
}

const offerClosing = `---

#### 🔄 NEXT STEPS & RECOMMENDATIONS

**✅ READY FOR NEXT PHASE**
Your offer is now clearly defined and ready for the next GPT assistants to:
1. **Build Customer Avatars** - Understand your target market deeply
2. **Create Marketing Campaigns** - Develop compelling messaging and strategies
3. **Design Sales Funnels** - Map the customer journey from awareness to purchase

**📝 VALIDATION CHECKLIST**
- [ ] Offer name is clear and memorable
- [ ] Core transformation is specific and compelling
- [ ] Features directly support the transformation
- [ ] Pricing aligns with value and market position
- [ ] USP differentiates from competitors
- [ ] Target audience is specific and reachable
- [ ] Problems solved are real and urgent

**➡️ CONFIRMATION REQUIRED**
**Does this comprehensive breakdown accurately represent your offer?**
- Say **"Yes"** to proceed to the next GPT assistant
- Say **"No"** and tell me what needs to be changed or clarified
- Say **"Revise"** and specify which sections need adjustment

---

`

package persona

func scalar(name string) Field { return Field{Name: name, Label: Humanize(name)} }

func list(name string) Field { return Field{Name: name, Label: Humanize(name), List: true} }

func labeled(f Field, label string) Field {
	f.Label = label
	return f
}

// Seed returns the full EUREKA persona suite in display order.
func Seed() []Persona {
	personas := []Persona{
		{
			ID:          OfferClarifier,
			Name:        "Offer Clarifier",
			Description: "Define your product or service clearly through 9 key questions",
			Fields: []Field{
				labeled(scalar("product_name"), "Offer Name"),
				scalar("core_transformation"),
				labeled(list("features"), "Key Features"),
				scalar("delivery_method"),
				scalar("format"),
				scalar("pricing"),
				labeled(scalar("unique_value"), "Unique Selling Proposition"),
				scalar("target_audience"),
				list("problems_solved"),
			},
		},
		{
			ID:          AvatarCreator,
			Name:        "Avatar Creator & Empathy Map",
			Description: "Build a complete customer avatar using the DigitalMarketer framework",
			Fields: []Field{
				scalar("customer_segment"),
				scalar("avatar_name"),
				list("demographics"),
				labeled(list("frustrations_fears"), "Frustrations & Fears"),
				labeled(list("wants_aspirations"), "Wants & Aspirations"),
				list("purchase_drivers"),
				list("objections"),
				list("decision_making"),
				list("before_state"),
				list("after_state"),
				list("emotional_shift"),
			},
		},
		{
			ID:          BeforeStateResearch,
			Name:        "Before State Research",
			Description: "Uncover deep emotional and psychological insights about your avatar's struggles",
			Fields: []Field{
				scalar("avatar_input"),
				list("what_they_have"),
				list("how_they_feel"),
				list("average_day"),
				list("status"),
				list("evil_they_face"),
				list("research_communities"),
				list("emotional_patterns"),
				scalar("before_state_narrative"),
				list("empathy_map"),
			},
		},
		{
			ID:          AfterStateResearch,
			Name:        "After State Research",
			Description: "Create compelling transformation narratives for your avatar's success state",
			Fields: []Field{
				scalar("avatar_input"),
				list("what_they_have_now"),
				list("how_they_feel_now"),
				list("average_day_now"),
				list("status_now"),
				list("good_they_do"),
				list("research_communities"),
				list("transformation_language"),
				scalar("after_state_narrative"),
				list("success_stories"),
			},
		},
		{
			ID:          AvatarValidator,
			Name:        "Avatar Validator",
			Description: "Analyze and improve your customer avatar for marketing readiness",
			Fields: []Field{
				scalar("avatar_profile_input"),
				scalar("demographics_analysis"),
				scalar("frustrations_analysis"),
				scalar("wants_analysis"),
				scalar("purchase_drivers_analysis"),
				scalar("before_state_analysis"),
				scalar("after_state_analysis"),
				list("logic_conflicts"),
				list("missing_areas"),
				list("improvement_suggestions"),
				scalar("validated_avatar"),
			},
		},
		{
			ID:          TriggerGPT,
			Name:        "Trigger GPT",
			Description: "Identify what events trigger your customers to seek solutions",
			Fields: []Field{
				scalar("avatar_input"),
				list("internal_triggers"),
				list("external_triggers"),
				list("seasonal_triggers"),
				list("trigger_moments"),
				list("emotional_states"),
				list("content_ideas"),
				list("entry_point_offers"),
				list("trigger_narratives"),
				list("urgency_factors"),
				list("predictability_ranking"),
			},
		},
		{
			ID:          EPOBuilder,
			Name:        "EPO Builder",
			Description: "Generate compelling Entry Point Offers for your customer journey",
			Fields: []Field{
				scalar("avatar_input"),
				scalar("triggers_input"),
				scalar("headlines_input"),
				scalar("offer_type_analysis"),
				list("gated_content_offers"),
				list("loss_leader_offers"),
				list("product_preview_offers"),
				list("trial_upgrade_offers"),
				list("velvet_rope_offers"),
				list("recommended_offers"),
				list("micro_commitments"),
				scalar("implementation_format"),
			},
		},
		{
			ID:          ScamperSynthesizer,
			Name:        "SCAMPER Synthesizer",
			Description: "Innovate your existing concepts using the SCAMPER framework",
			Fields: []Field{
				scalar("existing_concept_input"),
				scalar("customer_avatar_input"),
				scalar("cvj_stage_focus"),
				list("substitute_ideas"),
				list("combine_ideas"),
				list("adapt_ideas"),
				list("modify_magnify_ideas"),
				list("put_to_another_use_ideas"),
				list("eliminate_ideas"),
				list("reverse_rearrange_ideas"),
				list("selected_innovations"),
				scalar("implementation_strategy"),
			},
		},
		{
			ID:          WildcardIdeaBot,
			Name:        "Wildcard Idea Bot",
			Description: "Inject bold, unexpected creative ideas to break marketing predictability",
			Fields: []Field{
				scalar("product_service_input"),
				scalar("customer_avatar_input"),
				scalar("campaign_ideas_input"),
				scalar("wildcard_idea_1"),
				scalar("wildcard_idea_2"),
				scalar("wildcard_idea_3"),
				scalar("wildcard_idea_4"),
				scalar("wildcard_idea_5"),
				list("cvj_stage_mapping"),
				list("audience_considerations"),
				list("selected_wildcards"),
				list("implementation_warnings"),
			},
		},
		{
			ID:          ConceptCrafter,
			Name:        "Concept Crafter Bot",
			Description: "Transform your offerings into compelling positioning and messaging",
			Fields: []Field{
				scalar("product_service_input"),
				scalar("customer_avatar_input"),
				scalar("business_goals_input"),
				scalar("main_hook_headline"),
				list("positioning_one_liners"),
				scalar("value_proposition_paragraph"),
				list("tagline_ideas"),
				list("voice_tone_recommendations"),
				list("style_tips"),
				list("messaging_angles"),
				list("emotional_triggers"),
				scalar("competitive_differentiation"),
			},
		},
		{
			ID:          HookHeadlineGPT,
			Name:        "Hook & Headline GPT",
			Description: "Generate scroll-stopping, emotion-driven messaging for all platforms",
			Fields: []Field{
				scalar("avatar_document_input"),
				scalar("concept_crafter_input"),
				scalar("trigger_events_input"),
				scalar("cvj_stage_focus"),
				list("concept_1_hooks"),
				list("concept_2_hooks"),
				list("concept_3_hooks"),
				list("email_sms_subject_lines"),
				list("content_angles"),
				list("pain_vs_aspiration_hooks"),
				list("cvj_mapped_messaging"),
				list("selected_hooks_headlines"),
			},
		},
		{
			ID:          CampaignConceptGenerator,
			Name:        "Campaign Concept Generator",
			Description: "Create complete campaign ideas with mapped customer journeys",
			Fields: []Field{
				scalar("avatar_input"),
				scalar("trigger_gpt_output"),
				scalar("concept_crafter_output"),
				scalar("hooks_headlines_output"),
				scalar("funnel_strategy_map"),
				list("offer_stack_epos"),
				scalar("campaign_1_concept"),
				scalar("campaign_2_concept"),
				scalar("campaign_3_concept"),
				list("campaign_titles"),
				list("core_hooks_emotions"),
				list("funnel_strategies"),
				scalar("selected_campaign"),
			},
		},
		{
			ID:          IdeaInjectionBot,
			Name:        "Idea Injection Bot",
			Description: "Capture creative insights and lightning-in-a-bottle moments",
			Fields: []Field{
				scalar("user_idea_input"),
				scalar("idea_description"),
				list("idea_tags"),
				list("connection_areas"),
				scalar("user_commentary"),
				scalar("timestamp"),
				scalar("idea_category"),
				scalar("implementation_notes"),
				scalar("priority_level"),
				list("related_gpts"),
				list("stored_ideas"),
				scalar("synthesizer_handoff"),
			},
		},
	}

	for i := range personas {
		personas[i].Greeting = greetings[personas[i].ID]
		personas[i].Instruction = BuildInstruction(personas[i])
	}
	return personas
}

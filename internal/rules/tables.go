package rules

import "github.com/kalambet/culturelens/internal/culture"

const (
	pdi = culture.PowerDistance
	idv = culture.Individualism
	uai = culture.UncertaintyAvoidance
	mas = culture.Masculinity
)

func defaultTables() map[culture.Context][]Rule {
	return map[culture.Context][]Rule{
		culture.MeetingIdea:          meetingIdeaRules(),
		culture.DisagreeWithSuperior: disagreeRules(),
		culture.Reporting:            reportingRules(),
		culture.RewardRecognition:    rewardRules(),
		culture.TeamCollaboration:    teamRules(),
		culture.Negotiation:          negotiationRules(),
		culture.Feedback:             feedbackRules(),
		culture.ConflictResolution:   conflictRules(),
	}
}

func meetingIdeaRules() []Rule {
	return []Rule{
		row(pdi,
			[]string{
				"In {target}, junior staff are expected to speak up; share your ideas directly instead of waiting for senior colleagues to go first.",
				"Open challenges to a manager's idea are not disrespect in {target}; debate is how ideas get tested.",
			},
			[]string{
				"Let senior members in {target} signal direction first, and frame your proposal as supporting their goals.",
				"Pre-socialize ideas with the most senior person before the meeting rather than surprising them in the room.",
			},
		),
		row(idv,
			[]string{
				"Present ideas as team contributions; in {target}, highlighting personal credit can come across as self-serving.",
				"Expect consensus to be built outside the meeting and give colleagues time to consult their group before committing.",
			},
			[]string{
				"In {target}, individuals are expected to own and advocate for their ideas; state your proposal and its benefits in the first person.",
				"Silence is often read as agreement or as having no ideas, so speak up during the meeting itself.",
			},
		),
		row(uai,
			[]string{
				"Colleagues in {target} are comfortable with rough, early-stage ideas; do not wait until every detail is settled before sharing.",
				"Be prepared for improvised discussion that departs from the agenda.",
			},
			[]string{
				"Back your proposal with data, a clear plan and an assessment of risks; loosely formed ideas may be dismissed in {target}.",
				"Send material ahead of the meeting and follow the agenda closely.",
			},
		),
	}
}

func disagreeRules() []Rule {
	return []Rule{
		row(pdi,
			[]string{
				"Managers in {target} generally welcome direct disagreement; you can raise concerns openly with your superior.",
				"Engage your superior as a partner in discussion; excessive deference may be read as lack of conviction.",
			},
			[]string{
				"Voice disagreement privately and respectfully; contradicting a superior in front of others can cause serious loss of face in {target}.",
				"Frame objections as questions or additional considerations rather than direct challenges.",
			},
		),
		row(idv,
			[]string{
				"Before disagreeing, check whether your concern is shared by the team; in {target} a collective concern carries more weight than a personal one.",
				"Phrase disagreement so that it preserves harmony; the relationship matters as much as the point.",
			},
			[]string{
				"In {target} it is acceptable to disagree as an individual; you do not need group backing to raise a concern.",
				"State your own position explicitly rather than speaking on behalf of the team.",
			},
		),
		row(uai,
			[]string{
				"Superiors in {target} tolerate ambiguity; objections about missing process carry less weight than objections about outcomes.",
				"Be open to trying the proposed approach first and correcting course later.",
			},
			[]string{
				"Support your disagreement with facts, precedent and a concrete alternative; superiors in {target} expect well-grounded objections.",
				"Point out risks and conflicts with existing rules explicitly, since these are persuasive in {target}.",
			},
		),
	}
}

func reportingRules() []Rule {
	return []Rule{
		row(pdi,
			[]string{
				"Reports in {target} can go directly to whoever needs the information without passing through every level of hierarchy.",
				"Keep reports concise and informal; elaborate formality is not expected.",
			},
			[]string{
				"Respect the reporting chain in {target}; send updates to your direct superior first and let them escalate.",
				"Use formal structure, titles and proper salutations in written reports.",
			},
		),
		row(uai,
			[]string{
				"Readers in {target} often prefer a short summary of status and next steps over exhaustive detail.",
				"Report progress even while plans are still evolving; interim updates are welcome.",
			},
			[]string{
				"Include detailed data, timelines and risk assessments; readers in {target} expect thoroughness.",
				"Flag deviations from the plan early and explain the corrective actions.",
			},
		),
		gatedRow(mas,
			[]string{
				"Avoid overstating individual achievements; {target} values modesty and shared effort.",
				"Mention workload and well-being alongside results.",
			},
			[]string{
				"Lead with results and concrete achievements; readers in {target} value clear performance outcomes.",
				"Present accomplishments confidently rather than understating them.",
			},
		),
	}
}

func rewardRules() []Rule {
	return []Rule{
		row(pdi,
			[]string{
				"In {target}, recognition can come from peers as well as managers; do not wait for top-down acknowledgement.",
				"Keep recognition informal and egalitarian.",
			},
			[]string{
				"Recognition in {target} carries the most weight when it comes from senior leadership.",
				"Respect seniority when deciding who is acknowledged first.",
			},
		),
		row(idv,
			[]string{
				"Recognize the team rather than singling out individuals; public individual praise can embarrass people in {target}.",
				"Prefer group rewards and shared celebrations.",
			},
			[]string{
				"Acknowledge individual contributions by name; professionals in {target} expect personal recognition.",
				"Tie rewards to individual performance where possible.",
			},
		),
		gatedRow(mas,
			[]string{
				"Keep praise understated; in {target}, loud celebration of winners can feel uncomfortable.",
				"Offer rewards such as flexibility and time off, not only bonuses or titles.",
			},
			[]string{
				"Celebrate achievements visibly; professionals in {target} are motivated by competition and status.",
				"Use tangible rewards such as bonuses, promotions and titles.",
			},
		),
	}
}

func teamRules() []Rule {
	return []Rule{
		row(pdi,
			[]string{
				"Expect team members in {target} to take initiative without waiting for instructions.",
				"Share decision-making and invite input from every level of the team.",
			},
			[]string{
				"Clarify roles and who makes the final decision; teams in {target} expect a clear leader.",
				"Give explicit instructions rather than assuming people will self-organize.",
			},
		),
		row(idv,
			[]string{
				"Invest time in relationships before focusing on tasks; trust comes first in {target}.",
				"Make decisions together and avoid acting unilaterally.",
			},
			[]string{
				"Define individual responsibilities and deliverables clearly; colleagues in {target} expect personal accountability.",
				"Be comfortable with colleagues working independently and reporting back.",
			},
		),
		row(uai,
			[]string{
				"Be ready for flexible roles and changing plans; teams in {target} adapt on the fly.",
				"Avoid over-specifying processes for collaborators who prefer autonomy.",
			},
			[]string{
				"Agree on processes, timelines and responsibilities in writing up front.",
				"Avoid last-minute changes; teams in {target} rely on predictable plans.",
			},
		),
	}
}

func negotiationRules() []Rule {
	return []Rule{
		row(pdi,
			[]string{
				"Negotiators from {target} may have full authority to decide; engage with them directly whatever their title.",
				"Use a relaxed, egalitarian style; heavy protocol can slow things down.",
			},
			[]string{
				"Match the seniority of your negotiating team to that of {target}; rank signals respect.",
				"Expect final decisions to be made by top management, possibly outside the negotiation room.",
			},
		),
		row(idv,
			[]string{
				"Build the relationship before discussing terms; in {target}, trust precedes the deal.",
				"Expect slower decisions while counterparts consult their group.",
			},
			[]string{
				"Get to the point quickly; negotiators from {target} focus on terms and individual interests.",
				"Expect a contract-driven process in which the written agreement matters more than the relationship.",
			},
		),
		row(uai,
			[]string{
				"Negotiators from {target} are comfortable with open-ended terms; do not insist on fixing every detail up front.",
				"Be flexible with the agenda and open to creative options.",
			},
			[]string{
				"Prepare detailed proposals, contracts and contingency plans; counterparts from {target} seek certainty.",
				"Expect thorough questioning and a preference for proven solutions.",
			},
		),
		gatedRow(mas,
			[]string{
				"Avoid overly aggressive tactics; {target} values compromise and consensus.",
				"Emphasize mutual benefit and long-term cooperation.",
			},
			[]string{
				"Expect a competitive, assertive style from {target}; state your position firmly.",
				"Emphasize performance, results and winning outcomes in your arguments.",
			},
		),
	}
}

func feedbackRules() []Rule {
	return []Rule{
		row(pdi,
			[]string{
				"Feedback in {target} flows in both directions; be prepared to receive criticism from subordinates.",
				"Deliver feedback as a conversation between equals.",
			},
			[]string{
				"Be careful with upward feedback in {target}; route it respectfully and in private.",
				"Feedback from a senior person carries more weight, so consider who delivers the message.",
			},
		),
		row(idv,
			[]string{
				"Give negative feedback privately and indirectly; criticism in front of others causes loss of face in {target}.",
				"Wrap critique in context and in appreciation for the relationship.",
			},
			[]string{
				"Be direct and specific; colleagues in {target} expect clear feedback addressed to them personally.",
				"Do not over-soften criticism, or the message may be missed.",
			},
		),
		row(uai,
			[]string{
				"Feedback in {target} may be informal and spontaneous; do not wait for scheduled reviews.",
				"Expect feedback to focus on outcomes rather than on process compliance.",
			},
			[]string{
				"Provide structured, well-documented feedback with concrete examples.",
				"Use regular, scheduled reviews; colleagues in {target} expect predictability.",
			},
		),
	}
}

func conflictRules() []Rule {
	return []Rule{
		row(pdi,
			[]string{
				"Resolve conflicts directly with the people involved; escalating to superiors is a last resort in {target}.",
				"Treat all parties as equals when mediating.",
			},
			[]string{
				"Involve a respected senior figure to mediate; authority helps settle disputes in {target}.",
				"Avoid confronting superiors directly about a conflict.",
			},
		),
		row(idv,
			[]string{
				"Prefer indirect approaches and third-party mediation; open confrontation damages harmony in {target}.",
				"Focus on preserving the relationship and saving face for everyone involved.",
			},
			[]string{
				"Address conflict openly and directly; colleagues in {target} see honest confrontation as healthy.",
				"Separate the issue from the person and focus on facts.",
			},
		),
		row(uai,
			[]string{
				"Stay pragmatic; colleagues in {target} may prefer improvised, case-by-case solutions.",
				"Do not rely too heavily on formal procedures to resolve tension.",
			},
			[]string{
				"Use established procedures and clear rules to resolve disputes; {target} values predictability.",
				"Document the agreements reached so the conflict does not recur.",
			},
		),
	}
}

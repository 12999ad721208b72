package corpus

import "github.com/ternarybob/sankofa/internal/models"

// Curated law names, used as topic law_name keys for curated sources.
const (
	LawCriminalOffences = "Criminal Offences Act, 1960 (Act 29)"
	LawLabour           = "Labour Act, 2003 (Act 651)"
	LawLand             = "Land Act, 2020 (Act 1036)"
	LawCompanies        = "Companies Act, 2019 (Act 992)"
	LawCourts           = "Courts Act, 1993 (Act 459)"
	LawFamily           = "Marriage and Family Law"
	LawDataProtection   = "Data Protection Act, 2012 (Act 843)"
	LawEnvironment      = "Environmental Protection Agency Act, 1994 (Act 490)"
	LawRTI              = "Right to Information Act, 2019 (Act 989)"
)

// CuratedLaws returns the law names that have curated QA sets, in a stable
// order matching the original corpus.
func CuratedLaws() []string {
	return []string{
		LawCriminalOffences,
		LawLabour,
		LawLand,
		LawCompanies,
		LawCourts,
		LawFamily,
		LawDataProtection,
		LawEnvironment,
		LawRTI,
	}
}

// CuratedRecords returns the curated QA set for a law, or nil when the law
// has no curated set. A fresh slice is returned on each call.
func CuratedRecords(lawName string) []models.Record {
	switch lawName {
	case LawCriminalOffences:
		return criminalLawRecords()
	case LawLabour:
		return labourLawRecords()
	case LawLand:
		return landLawRecords()
	case LawCompanies:
		return companyLawRecords()
	case LawCourts:
		return courtsLawRecords()
	case LawFamily:
		return familyLawRecords()
	case LawDataProtection:
		return dataProtectionRecords()
	case LawEnvironment:
		return environmentalLawRecords()
	case LawRTI:
		return rtiLawRecords()
	}
	return nil
}

func criminalLawRecords() []models.Record {
	return []models.Record{
		{
			Question: "What is the Criminal Offences Act, 1960 (Act 29) of Ghana?",
			Answer:   "The Criminal Offences Act, 1960 (Act 29) is Ghana's primary criminal legislation that codifies criminal offences and their punishments. It defines various crimes including offences against the state, offences against the person (such as murder, manslaughter, and assault), sexual offences, offences against property (such as theft and robbery), and other miscellaneous offences. The Act has been amended several times to address contemporary criminal issues in Ghana.",
		},
		{
			Question: "How is murder defined under the Criminal Offences Act of Ghana?",
			Answer:   "Under Section 46 of the Criminal Offences Act, 1960 (Act 29), murder is defined as the unlawful killing of another person with the intention to cause death, or with the intention to cause grievous bodily harm, or with knowledge that the act or omission causing death will probably cause the death of or grievous bodily harm to some person. Murder is punishable by death in Ghana, although there has been a de facto moratorium on executions.",
		},
		{
			Question: "What is the punishment for theft under Ghanaian criminal law?",
			Answer:   "Under Section 124 of the Criminal Offences Act, 1960 (Act 29), theft is a second-degree felony and is punishable by imprisonment for a term not exceeding ten years. However, if the theft involves property of a value exceeding a specified amount, or involves certain aggravating factors, the punishment may be more severe. The Act defines theft as the fraudulent taking of a thing capable of being stolen, or fraudulently converting to use of any person other than the owner, anything capable of being stolen.",
		},
		{
			Question: "What constitutes robbery under the Criminal Offences Act of Ghana?",
			Answer:   "Under Section 149 of the Criminal Offences Act, 1960 (Act 29), robbery is committed when a person steals and immediately before or at the time of stealing or immediately after stealing, uses or threatens to use force on any person or property in order to obtain or retain the thing stolen or to prevent resistance to its being stolen or retained. Robbery is a first-degree felony punishable by imprisonment for a term of not less than ten years.",
		},
		{
			Question: "What are the provisions for sexual offences under the Criminal Offences Act of Ghana?",
			Answer:   "The Criminal Offences Act, 1960 (Act 29) addresses sexual offences in Sections 97-106. Rape is defined under Section 97 as the carnal knowledge of a female of sixteen years or above without her consent, punishable as a first-degree felony. Defilement of a child under sixteen years is addressed in Section 101, also punishable as a first-degree felony. The Act also covers incest, indecent assault, and unnatural carnal knowledge.",
		},
	}
}

func labourLawRecords() []models.Record {
	return []models.Record{
		{
			Question: "What is the Labour Act, 2003 (Act 651) of Ghana?",
			Answer:   "The Labour Act, 2003 (Act 651) is Ghana's primary employment legislation that governs employment relationships in the country. It covers employment contracts, wages and salaries, hours of work and rest periods, leave entitlements, occupational health and safety, unfair termination, trade unions and collective bargaining. The Act establishes the National Labour Commission for dispute resolution and the National Tripartite Committee for labor matters.",
		},
		{
			Question: "What are the working hours provisions under the Labour Act of Ghana?",
			Answer:   "Under the Labour Act, 2003 (Act 651), the normal working hours for an employee shall not exceed eight hours a day or forty hours a week. An employee who works more than eight hours a day or forty hours a week is entitled to overtime pay. Night work (between 10 PM and 6 AM) attracts additional allowances. The Act also provides for rest periods of at least one hour during the working day and at least 48 consecutive hours of rest each week.",
		},
		{
			Question: "What are the leave entitlements under the Labour Act of Ghana?",
			Answer:   "Under the Labour Act, 2003 (Act 651), an employee is entitled to at least fifteen working days of annual leave with full pay after every twelve months of continuous service. Female employees are entitled to at least twelve weeks of maternity leave with full pay. Employees are also entitled to sick leave of their accumulated annual leave, or where the employee has no accumulated leave, sick leave of up to five days in any year.",
		},
		{
			Question: "What is unfair termination under the Labour Act of Ghana?",
			Answer:   "Under Section 63 of the Labour Act, 2003 (Act 651), a termination of employment is unfair if the employer fails to prove that: (a) the reason for the termination is fair; and (b) the termination was made in accordance with a fair procedure. A reason is unfair if it is based on the worker's pregnancy, union membership, race, religion, gender, or filing a complaint against the employer. The National Labour Commission can order reinstatement or compensation for unfair termination.",
		},
		{
			Question: "What are the provisions for collective bargaining under the Labour Act of Ghana?",
			Answer:   "The Labour Act, 2003 (Act 651) provides for collective bargaining in Sections 96-119. Workers have the right to form and join trade unions. Employers must recognize and negotiate with registered trade unions. Collective agreements are binding on the parties and their successors. The Act establishes procedures for resolving disputes arising from collective bargaining, including mediation and arbitration through the National Labour Commission.",
		},
	}
}

func landLawRecords() []models.Record {
	return []models.Record{
		{
			Question: "What is the Land Act, 2020 (Act 1036) of Ghana?",
			Answer:   "The Land Act, 2020 (Act 1036) is Ghana's comprehensive land legislation that consolidates the law relating to land, including the law relating to interest in land, responsibilities of owners of interest in land, and the management and administration of stool and clan lands. The Act aims to harmonize the management and administration of public and private lands and provide for related matters.",
		},
		{
			Question: "What are the different types of land interests recognized under the Land Act of Ghana?",
			Answer:   "Under the Land Act, 2020 (Act 1036), recognized interests in land include: (a) allodial interest - the highest interest in land; (b) usufructuary interest - the interest of a subject of a stool, skin, family or clan in the stool, skin, family or clan land; (c) leasehold interest - an interest granted by the holder of an allodial or usufructuary interest for a definite period; (d) customary freehold - an interest created by a stool, skin, family or clan for indefinite duration; and (e) licenses and other lesser interests.",
		},
		{
			Question: "How is customary land managed under the Land Act of Ghana?",
			Answer:   "Under the Land Act, 2020 (Act 1036), customary land is managed by traditional authorities (stools, skins, families, and clans) in accordance with customary law. The Act requires the establishment of Customary Land Secretariats to manage stool, skin, and family lands. These secretariats maintain records of land transactions, facilitate land use planning, and promote transparency in land administration. Stool lands are administered by the Lands Commission on behalf of the stools.",
		},
		{
			Question: "What is the role of the Lands Commission under Ghanaian land law?",
			Answer:   "Under the Land Act, 2020 (Act 1036) and the Lands Commission Act, 2008 (Act 767), the Lands Commission is responsible for: (a) managing public lands and any lands vested in the President on behalf of the people of Ghana; (b) advising the Government, local authorities and traditional authorities on policy framework for the development of particular areas of Ghana; (c) formulating and submitting to Government recommendations on land policy; (d) processing applications for grants and land-related concessions; and (e) maintaining land registries.",
		},
		{
			Question: "What are the provisions for land registration under the Land Act of Ghana?",
			Answer:   "Under the Land Act, 2020 (Act 1036), all interests in land must be registered with the Lands Commission to be valid against third parties. The Act provides for a system of title registration where the register is conclusive evidence of ownership. Unregistered interests are enforceable only between the immediate parties. The Act also requires that all land transactions be in writing and witnessed to be valid.",
		},
	}
}

func companyLawRecords() []models.Record {
	return []models.Record{
		{
			Question: "What is the Companies Act, 2019 (Act 992) of Ghana?",
			Answer:   "The Companies Act, 2019 (Act 992) is Ghana's primary legislation governing the incorporation, registration, management, and winding up of companies. It replaced the Companies Act, 1963 (Act 179). The Act recognizes various types of companies including companies limited by shares, companies limited by guarantee, and unlimited companies. It establishes the Office of the Registrar of Companies and provides for corporate governance standards.",
		},
		{
			Question: "What are the types of companies recognized under the Companies Act of Ghana?",
			Answer:   "Under the Companies Act, 2019 (Act 992), the following types of companies are recognized: (a) company limited by shares - where the liability of members is limited to the amount unpaid on their shares; (b) company limited by guarantee - where liability is limited to the amount members undertake to contribute; (c) unlimited company - where members have unlimited liability; (d) external company - a company incorporated outside Ghana but operating in Ghana; and (e) one-person company - a company with only one member.",
		},
		{
			Question: "What are the requirements for incorporating a company in Ghana?",
			Answer:   "Under the Companies Act, 2019 (Act 992), to incorporate a company in Ghana, the incorporators must: (a) choose a unique company name and obtain clearance from the Registrar; (b) prepare the company's constitution; (c) file the incorporation documents with the Registrar including Form 3 (registration statement), the constitution, and particulars of directors and secretary; (d) pay the prescribed fees; and (e) obtain a certificate of incorporation from the Registrar. A company may also need to register for taxes and obtain relevant business licenses.",
		},
		{
			Question: "What are the duties of directors under the Companies Act of Ghana?",
			Answer:   "Under the Companies Act, 2019 (Act 992), directors owe fiduciary duties to the company including: (a) duty to act in good faith in the best interests of the company; (b) duty to exercise powers for proper purposes; (c) duty not to fetter discretion; (d) duty to avoid conflicts of interest; (e) duty not to accept benefits from third parties; (f) duty to declare interest in proposed transactions; and (g) duty to exercise reasonable care, skill and diligence. Directors who breach these duties may be personally liable.",
		},
		{
			Question: "How can a company be wound up under the Companies Act of Ghana?",
			Answer:   "Under the Companies Act, 2019 (Act 992), a company may be wound up: (a) voluntarily by members' resolution when the company has achieved its purpose or the period fixed for its duration has expired; (b) voluntarily by creditors when the company is insolvent; or (c) by the court on grounds including inability to pay debts, public interest, or just and equitable grounds. The winding up process involves appointing a liquidator, realizing assets, paying creditors, and distributing any surplus to members.",
		},
	}
}

func courtsLawRecords() []models.Record {
	return []models.Record{
		{
			Question: "What is the structure of the Ghanaian court system?",
			Answer:   "The Ghanaian court system comprises the Superior Courts and the Lower Courts. The Superior Courts include: the Supreme Court (the highest court and final appellate court), the Court of Appeal (hears appeals from the High Court), and the High Court (has unlimited original jurisdiction). The Lower Courts include: Circuit Courts, District Courts, and specialized tribunals. There are also Community Tribunals for minor matters and specialized courts like the Commercial Court, Financial and Economic Crimes Court, and the Human Rights Court.",
		},
		{
			Question: "What is the jurisdiction of the Supreme Court of Ghana?",
			Answer:   "Under Article 130 of the 1992 Constitution and the Courts Act, 1993, the Supreme Court of Ghana has: (a) exclusive original jurisdiction in constitutional matters and questions of constitutional interpretation; (b) appellate jurisdiction from judgments of the Court of Appeal; (c) power to review its own decisions; (d) supervisory jurisdiction over all courts and adjudicating authorities; and (e) power to issue writs including habeas corpus, certiorari, mandamus, and prohibition. The Supreme Court consists of not less than nine and not more than fifteen justices.",
		},
		{
			Question: "What is the jurisdiction of the High Court of Ghana?",
			Answer:   "Under Article 140 of the 1992 Constitution, the High Court has: (a) original jurisdiction in all matters, both civil and criminal, except those for which the Constitution provides differently; (b) jurisdiction to enforce fundamental human rights and freedoms; (c) power to issue writs including habeas corpus, certiorari, mandamus, and prohibition; and (d) appellate and supervisory jurisdiction over lower courts and tribunals. The High Court also has specialized divisions including the Commercial Division, Land Division, and Human Rights Division.",
		},
	}
}

func familyLawRecords() []models.Record {
	return []models.Record{
		{
			Question: "What are the types of marriages recognized in Ghana?",
			Answer:   "Ghana recognizes three types of marriages: (a) Customary marriage - conducted according to the customary law of the parties and registered under the Customary Marriage and Divorce (Registration) Law, 1985; (b) Ordinance marriage (also called statutory marriage) - a monogamous marriage under the Marriage Ordinance, 1884-1985, conducted in a church, mosque, or before a registrar; and (c) Islamic marriage - for Muslims, under Islamic law and customs. Each type has different requirements and legal effects, particularly regarding inheritance and property rights.",
		},
		{
			Question: "What is the Intestate Succession Law of Ghana?",
			Answer:   "The Intestate Succession Law, 1985 (PNDC Law 111) governs the distribution of property when a person dies without a valid will. Under this law, the deceased's estate is distributed as follows: the spouse receives the household chattels and the house where they resided; if there are children, the remainder is divided with 3/9 to the spouse, 3/9 to the children, 1/9 to the surviving parent, and 2/9 to the customary family. If there is no spouse, children inherit 3/4 and the customary family inherits 1/4. The law aims to protect the surviving spouse and children.",
		},
		{
			Question: "What is the Matrimonial Causes Act of Ghana?",
			Answer:   "The Matrimonial Causes Act, 1971 (Act 367) governs divorce proceedings in Ghana for statutory (ordinance) marriages. The sole ground for divorce is that the marriage has broken down beyond reconciliation, which may be proved by: adultery, unreasonable behavior, desertion for at least two years, living apart for at least two years (with consent), or living apart for at least five years. The court may also make orders regarding maintenance, custody of children, and division of property.",
		},
	}
}

func dataProtectionRecords() []models.Record {
	return []models.Record{
		{
			Question: "What is the Data Protection Act of Ghana?",
			Answer:   "The Data Protection Act, 2012 (Act 843) is Ghana's primary legislation on data protection and privacy. It establishes the Data Protection Commission and provides for the protection of the privacy of the individual and personal data. The Act regulates the collection, processing, storage, and use of personal data by data controllers. It requires data controllers to register with the Commission and to obtain consent for processing personal data. The Act also provides for the rights of data subjects including the right to access, correct, and delete personal data.",
		},
		{
			Question: "What are the principles of data protection under the Data Protection Act of Ghana?",
			Answer:   "Under the Data Protection Act, 2012 (Act 843), the principles of data protection include: (a) accountability - data controllers are responsible for compliance; (b) lawfulness - processing must have a lawful basis; (c) specification of purpose - data must be collected for a specified purpose; (d) data quality - data must be accurate and kept up to date; (e) openness - data subjects must be informed; (f) security safeguards - appropriate measures must be taken to protect data; and (g) data subject participation - individuals have rights over their data.",
		},
	}
}

func environmentalLawRecords() []models.Record {
	return []models.Record{
		{
			Question: "What is the Environmental Protection Agency Act of Ghana?",
			Answer:   "The Environmental Protection Agency Act, 1994 (Act 490) establishes the Environmental Protection Agency (EPA) as the leading public body for protecting and improving the environment in Ghana. The EPA is responsible for: advising the Minister on environmental policy; coordinating activities of bodies with environmental functions; issuing environmental permits and pollution abatement notices; prescribing standards for air, water, and soil quality; and ensuring compliance with environmental regulations. The EPA also conducts environmental impact assessments.",
		},
		{
			Question: "What are the requirements for Environmental Impact Assessment in Ghana?",
			Answer:   "Under the Environmental Assessment Regulations, 1999 (LI 1652), any undertaking that is likely to have adverse effects on the environment must undergo an environmental impact assessment before commencement. The process involves: preliminary environmental report, scoping, detailed EIA study, public review, EPA review and decision, and environmental management plan. Activities requiring EIA include mining, manufacturing, infrastructure projects, and developments in environmentally sensitive areas. Failure to obtain environmental permits attracts penalties.",
		},
	}
}

func rtiLawRecords() []models.Record {
	return []models.Record{
		{
			Question: "What is the Right to Information Act of Ghana?",
			Answer:   "The Right to Information Act, 2019 (Act 989) gives effect to Article 21(1)(f) of the 1992 Constitution which guarantees the right of access to information. The Act allows any person to request information from public institutions and some private bodies that receive public funding. Information must be provided within 14 days of request. Certain information is exempt from disclosure including national security information, personal privacy, and trade secrets. The Act establishes the Right to Information Commission to oversee implementation.",
		},
		{
			Question: "How can one request information under the Right to Information Act of Ghana?",
			Answer:   "Under the Right to Information Act, 2019 (Act 989), to request information: (a) submit a written or electronic application to the information officer of the institution; (b) describe the information sought with sufficient detail; (c) specify the form in which you want the information; and (d) pay any prescribed fees. The institution must respond within 14 days, extending to 21 days if needed. If the request is denied, the applicant may apply for internal review and then appeal to the Right to Information Commission or the courts.",
		},
	}
}

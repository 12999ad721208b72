package corpus

import "github.com/ternarybob/sankofa/internal/models"

// chapterTitles maps chapter numbers of the 1992 Constitution of Ghana to
// their official titles.
var chapterTitles = map[int]string{
	1:  "The Constitution",
	2:  "Territories of Ghana",
	3:  "Citizenship",
	4:  "The Laws of Ghana",
	5:  "Fundamental Human Rights and Freedoms",
	6:  "The Directive Principles of State Policy",
	7:  "Representation of the People",
	8:  "The Executive",
	9:  "The Council of State",
	10: "The Legislature",
	11: "The Judiciary",
	12: "Freedom and Independence of the Media",
	13: "Finance",
	14: "The Public Services",
	15: "The Armed Forces",
	16: "The Police Service",
	17: "Commission on Human Rights and Administrative Justice",
	18: "Regional Organization and Local Government",
	19: "Decentralization and Local Government",
	20: "Lands and Natural Resources",
	21: "National Culture",
	22: "Chieftaincy",
	23: "Public Holidays",
	24: "Code of Conduct for Public Officers",
	25: "Amendment of the Constitution",
	26: "Miscellaneous",
}

// ChapterTitle returns the title of a constitution chapter, or "" if unknown.
func ChapterTitle(n int) string {
	return chapterTitles[n]
}

// ConstitutionArticles returns the curated key articles of the 1992
// Constitution of Ghana. A fresh slice is returned on each call so callers
// cannot mutate the package data.
func ConstitutionArticles() []models.Article {
	articles := []models.Article{
		{
			Chapter: 1,
			Number:  1,
			Title:   "Supremacy of the Constitution",
			Content: `(1) The Sovereignty of Ghana resides in the people of Ghana in whose name and for whose welfare the powers of government are to be exercised in the manner and within the limits laid down in this Constitution.
(2) This Constitution shall be the supreme law of Ghana and any other law found to be inconsistent with any provision of this Constitution shall, to the extent of the inconsistency, be void.
(3) The Constitution shall be the fundamental law of the nation and shall be enforced and observed as such.`,
		},
		{
			Chapter: 1,
			Number:  2,
			Title:   "Enforcement of the Constitution",
			Content: `(1) A person who alleges that -
(a) an enactment or anything contained in or done under the authority of that or any other enactment; or
(b) any act or omission of any person;
is inconsistent with, or is in contravention of a provision of this Constitution, may bring an action in the Supreme Court for a declaration to that effect.
(2) The Supreme Court shall, for the purposes of a declaration under clause (1) of this article, make such orders and give such directions as it may consider appropriate for giving effect, or enabling effect to be given, to the declaration so made.`,
		},
		{
			Chapter: 1,
			Number:  3,
			Title:   "Defence of the Constitution",
			Content: `(1) Parliament shall have no power to enact a law establishing a one-party state.
(2) Any activity of a person or group of persons which suppresses or seeks to suppress the lawful political activity of any other person or any class of persons, or persons generally is unlawful.
(3) Any person who -
(a) by himself or in concert with others by any violent or other unlawful means, suspends or overthrows or abrogates this Constitution or any part of it, or attempts to do any such act; or
(b) aids and abets in any manner any person referred to in paragraph (a) of this clause;
commits the offence of high treason and shall, upon conviction, be sentenced to suffer death.`,
		},
		{
			Chapter: 5,
			Number:  12,
			Title:   "Protection of Fundamental Human Rights and Freedoms",
			Content: `(1) The fundamental human rights and freedoms enshrined in this Chapter shall be respected and upheld by the Executive, Legislature and Judiciary and all other organs of government and its agencies and, where applicable to them, by all natural and legal persons in Ghana, and shall be enforceable by the Courts as provided for in this Constitution.
(2) Every person in Ghana, whatever his race, place of origin, political opinion, colour, religion, creed or gender shall be entitled to the fundamental human rights and freedoms of the individual contained in this Chapter but subject to respect for the rights and freedoms of others and for the public interest.`,
		},
		{
			Chapter: 5,
			Number:  13,
			Title:   "Right to Life",
			Content: `(1) No person shall be deprived of his life intentionally except in the exercise of the execution of a sentence of a court in respect of a criminal offence under the laws of Ghana of which he has been convicted.
(2) A person shall not be held to have deprived another person of his life in contravention of clause (1) of this article if that other person dies as the result of a lawful act of war or if that other person dies as the result of the use of force to such extent as is reasonably justifiable in the particular circumstances.`,
		},
		{
			Chapter: 5,
			Number:  14,
			Title:   "Protection of Personal Liberty",
			Content: `(1) Every person shall be entitled to his personal liberty and no person shall be deprived of his personal liberty except in accordance with the procedure permitted by law in any of the following cases-
(a) in execution of a sentence or order of a court in respect of a criminal offence of which he has been convicted; or
(b) in execution of an order of a court punishing him for contempt of court; or
(c) for the purpose of bringing him before a court in execution of an order of a court; or
(d) in the case of a person suffering from an infectious or contagious disease, a person of unsound mind, a person addicted to drugs or alcohol or a vagrant, for the purpose of his care or treatment or the protection of the community; or
(e) for the purpose of the education or welfare of a person who has not attained the age of eighteen years; or
(f) for the purpose of preventing the unlawful entry of that person into Ghana, or of effecting the expulsion, extradition or other lawful removal of that person from Ghana or for the purpose of restricting that person while he is being lawfully conveyed through Ghana in the course of his extradition or removal from one country to another.`,
		},
		{
			Chapter: 5,
			Number:  15,
			Title:   "Respect for Human Dignity",
			Content: `(1) The dignity of all persons shall be inviolable.
(2) No person shall, whether or not he is arrested, restricted or detained, be subjected to -
(a) torture or other cruel, inhuman or degrading treatment or punishment;
(b) any other condition that detracts or is likely to detract from his dignity and worth as a human being.`,
		},
		{
			Chapter: 5,
			Number:  16,
			Title:   "Protection from Slavery and Forced Labour",
			Content: `(1) No person shall be held in slavery or servitude.
(2) No person shall be required to perform forced labour.
(3) For the purposes of this article, "forced labour" does not include-
(a) any labour required as a result of a sentence or order of a court;
(b) any labour required of a member of a disciplined force or service as his duties or, in the case of a person who has conscientious objections to service as a member of the Armed Forces of Ghana, any labour which that person is required by law to perform in place of such service;
(c) any labour required during any period when Ghana is at war or in the event of an emergency or calamity that threatens the life and well-being of the community.`,
		},
		{
			Chapter: 5,
			Number:  17,
			Title:   "Equality and Freedom from Discrimination",
			Content: `(1) All persons shall be equal before the law.
(2) A person shall not be discriminated against on grounds of gender, race, colour, ethnic origin, religion, creed or social or economic status.
(3) For the purposes of this article, "discriminate" means to give different treatment to different persons attributable only or mainly to their respective descriptions by gender, race, colour, ethnic origin, religion, creed, or social or economic status.
(4) Nothing in this article shall prevent Parliament from enacting laws that are reasonably necessary to provide-
(a) for the implementation of policies and programmes aimed at redressing social, economic or educational imbalance in the Ghanaian society.`,
		},
		{
			Chapter: 5,
			Number:  18,
			Title:   "Protection of Privacy of Home and Other Property",
			Content: `(1) Every person has the right to own property either alone or in association with others.
(2) No person shall be subjected to interference with the privacy of his home, property, correspondence or communication except in accordance with law and as may be necessary in a free and democratic society for public safety or the economic well-being of the country, for the protection of health or morals, for the prevention of disorder or crime or for the protection of the rights or freedoms of others.`,
		},
		{
			Chapter: 5,
			Number:  19,
			Title:   "Fair Trial",
			Content: `(1) A person charged with a criminal offence shall be given a fair hearing within a reasonable time by a court.
(2) A person charged with a criminal offence shall-
(a) in the case of an offence other than high treason or treason, be presumed to be innocent until he is proved or has pleaded guilty;
(b) be informed immediately in a language he understands, and in detail, of the nature of the offence charged;
(c) be given adequate time and facilities for the preparation of his defence;
(d) be permitted to defend himself before the court in person or by a lawyer of his choice;
(e) be afforded facilities to examine, in person or by his lawyer, the witnesses called by the prosecution before the court, and to obtain the attendance and carry out the examination of witnesses to testify on the same conditions as those applicable to witnesses called by the prosecution.`,
		},
		{
			Chapter: 5,
			Number:  21,
			Title:   "General Fundamental Freedoms",
			Content: `(1) All persons shall have the right to-
(a) freedom of speech and expression, which shall include freedom of the press and other media;
(b) freedom of thought, conscience and belief, which shall include academic freedom;
(c) freedom to practise any religion and to manifest such practice;
(d) freedom of assembly including freedom to take part in processions and demonstrations;
(e) freedom of association, which shall include freedom to form or join trade unions or other associations, national and international, for the protection of their interest;
(f) information, subject to such qualifications and laws as are necessary in a democratic society;
(g) freedom of movement which shall include freedom to move freely throughout Ghana, the right to leave and to enter Ghana and immunity from expulsion from Ghana.`,
		},
		{
			Chapter: 8,
			Number:  57,
			Title:   "The President of Ghana",
			Content: `(1) There shall be a President of the Republic of Ghana who shall be the Head of State and Head of Government and Commander-in-Chief of the Armed Forces of Ghana.
(2) The President shall take precedence over all other persons in Ghana; and in descending order, the Vice-President, the Speaker of Parliament and the Chief Justice, shall take precedence over all other persons in Ghana.`,
		},
		{
			Chapter: 8,
			Number:  58,
			Title:   "Executive Authority of Ghana",
			Content: `(1) The executive authority of Ghana shall vest in the President and shall be exercised in accordance with the provisions of this Constitution.
(2) The executive authority of Ghana shall extend to the execution and maintenance of this Constitution and all laws made under or continued in force by this Constitution.
(3) Subject to the provisions of this Constitution, the functions conferred on the President by clause (1) of this article may be exercised by him either directly or through officers subordinate to him.`,
		},
		{
			Chapter: 8,
			Number:  60,
			Title:   "Qualification of the President",
			Content: `(1) A person shall not be qualified for election as President of Ghana unless-
(a) he is a citizen of Ghana by birth;
(b) he has attained the age of forty years; and
(c) he is a person who is otherwise qualified to be elected a member of Parliament, except that the disqualifications set out in paragraphs (c), (d) and (e) of clause (2) of article 94 of this Constitution shall not apply to him.`,
		},
		{
			Chapter: 8,
			Number:  63,
			Title:   "Election of President",
			Content: `(1) The election of the President shall be by universal adult suffrage and shall be by secret ballot.
(2) A candidate shall not be declared elected as President unless-
(a) he has obtained more than fifty percent of the total number of valid votes cast at the election; and
(b) the votes cast in his favour were obtained from not less than two-thirds of the regions of Ghana.
(3) Where at an election under this article there are more than two candidates and no candidate obtains the number of votes and percentages specified in clause (2) of this article, a second election shall be held within twenty-one days after the previous election.`,
		},
		{
			Chapter: 10,
			Number:  93,
			Title:   "Parliament of Ghana",
			Content: `(1) There shall be a Parliament of Ghana which shall consist of not less than one hundred and forty elected members.
(2) Subject to the provisions of this Constitution, the legislative power of Ghana shall be vested in Parliament and shall be exercised in accordance with this Constitution.`,
		},
		{
			Chapter: 10,
			Number:  94,
			Title:   "Qualification and Disqualification for Membership of Parliament",
			Content: `(1) Subject to the provisions of this article, a person shall not be qualified to be a member of Parliament unless-
(a) he is a citizen of Ghana, has attained the age of twenty-one years and is a registered voter;
(b) he is resident in the constituency for which he stands as a candidate for election to Parliament or has resided there for a total period of not less than five years out of the ten years immediately preceding the election for which he offers himself as a candidate or he hails from that constituency; and
(c) he has paid all his taxes or made arrangements satisfactory to the appropriate authority for the payment of his taxes.`,
		},
		{
			Chapter: 11,
			Number:  125,
			Title:   "The Judiciary",
			Content: `(1) Justice emanates from the people and shall be administered in the name of the Republic by the Judiciary which shall be independent and subject only to this Constitution.
(2) Citizens may exercise popular participation in the administration of justice through the institution of public tribunals.`,
		},
		{
			Chapter: 11,
			Number:  126,
			Title:   "The Superior Courts of Judicature",
			Content: `(1) The Superior Courts of Judicature shall comprise-
(a) the Supreme Court of Ghana;
(b) the Court of Appeal; and
(c) the High Court and Regional Tribunals.
(2) Subject to the provisions of this Constitution, the Superior Courts shall be the final authority in all matters of law in Ghana, including matters relating to this Constitution.`,
		},
		{
			Chapter: 11,
			Number:  127,
			Title:   "Independence of the Judiciary",
			Content: `(1) In the exercise of the judicial power of Ghana, the Judiciary, in both its judicial and administrative functions, including financial administration, shall not be subject to the control or direction of any person or authority.
(2) Neither the President nor Parliament nor any person whatsoever shall interfere with Judges or judicial officers or other persons exercising judicial power, in the exercise of their judicial functions.`,
		},
		{
			Chapter: 17,
			Number:  216,
			Title:   "Commission on Human Rights and Administrative Justice",
			Content: `There shall be established by Act of Parliament within six months after Parliament first meets after the coming into force of this Constitution, a Commission on Human Rights and Administrative Justice which shall consist of-
(a) a Commissioner for Human Rights and Administrative Justice; and
(b) two Deputy Commissioners for Human Rights and Administrative Justice.`,
		},
		{
			Chapter: 17,
			Number:  218,
			Title:   "Functions of the Commission",
			Content: `The functions of the Commission shall be defined and prescribed by Act of Parliament and shall include the duty-
(a) to investigate complaints of violations of fundamental rights and freedoms, injustice, corruption, abuse of power and unfair treatment of any person by a public officer in the exercise of his official duties;
(b) to investigate complaints concerning the functioning of the Public Services Commission, the administrative organs of the State, the Armed Forces, the Police Service and the Prisons Service in so far as the complaints relate to the failure to achieve a balanced structuring of those services or equal access by all to the recruitment of those services or fair administration in relation to those services;
(c) to investigate complaints concerning practices and actions by persons, private enterprises and other institutions where those complaints allege violations of fundamental rights and freedoms under this Constitution.`,
		},
		{
			Chapter: 22,
			Number:  270,
			Title:   "Institution of Chieftaincy",
			Content: `(1) The institution of chieftaincy, together with its traditional councils as established by customary law and usage, is hereby guaranteed.
(2) Parliament shall have no power to enact any law which-
(a) confers on any person or authority the right to accord or withdraw recognition to or from a chief for any purpose whatsoever; or
(b) in any way detracts or derogates from the honour and dignity of the institution of chieftaincy.
(3) Nothing in or done under the authority of any law shall be held to be inconsistent with, or in contravention of, clause (1) or (2) of this article if the law makes provision for-
(a) the determination, in accordance with the appropriate customary law and usage, by a traditional council, a Regional House of Chiefs or a Chieftaincy Committee of any of them, of the validity of the nomination, election, selection, installation or deposition of a person as a chief.`,
		},
		{
			Chapter: 22,
			Number:  271,
			Title:   "National House of Chiefs",
			Content: `(1) There shall be a National House of Chiefs.
(2) The National House of Chiefs shall consist of five paramount chiefs from each region, elected by the Regional House of Chiefs from among themselves.
(3) The National House of Chiefs shall-
(a) advise any person or authority charged with any responsibility under this Constitution or any other law for any matter relating to or affecting chieftaincy;
(b) undertake the progressive study, interpretation and codification of customary law with a view to evolving, in appropriate cases, a unified system of rules of customary law, and compiling the customary laws and lines of succession applicable to each stool or skin.`,
		},
	}
	return articles
}

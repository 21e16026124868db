package models

// Default returns the built-in sheet used when nothing has been saved yet.
// Every call returns a fresh copy.
func Default() Record {
	return Record{
		Header: Header{
			Name:       "Kael Vaerun",
			ClassLevel: "Mago 5",
			Race:       "Elfo do Sol",
			Background: "Sábio",
			Alignment:  "Neutro e Bom",
			Appearance: "Olhos vermelhos, pele acinzentada, cabelo loiro prateado. 1.85m, 125 anos.",
		},
		Attributes: Attributes{
			Forca:        8,
			Destreza:     16,
			Constituicao: 13,
			Inteligencia: 16,
			Sabedoria:    12,
			Carisma:      10,
			Proficiencia: 3,
		},
		Proficiencies: Proficiencies{
			Armor:     []string{"Nenhuma"},
			Weapons:   []string{"Nenhuma"},
			Tools:     []string{"Nenhuma"},
			Languages: []string{"Comum", "Élfico"},
		},
		Traits: []Feature{
			{Title: "Visão Noturna", Description: "Consegue ver no escuro até 60m."},
			{Title: "Graça Élfica", Description: "Não dorme, medita por 4 horas."},
		},
		Feats: []Feature{
			{Title: "Mago Especialista", Description: "Pode escolher um círculo de magia para se especializar."},
		},
		Allies: []Ally{
			{Name: "Maerin Ilphukiir", Relation: "Mestre"},
			{Name: "Brennir", Relation: "Companheiro de jornada"},
		},
		Combat: Combat{
			ArmorClass:       12,
			Initiative:       2,
			Speed:            9,
			HitPointsMax:     31,
			HitPointsCurrent: 31,
			Attacks: []Attack{
				{Name: "Arco Longo", Bonus: 6, Damage: "1d8+3", Type: "Perf."},
				{Name: "Raio de Fogo", Bonus: 6, Damage: "2d10", Type: "Fogo"},
			},
		},
		Spells: Spellbook{
			// wizard level 5: 4 first, 3 second, 2 third circle slots
			Slots: [SpellLevels]int{0, 4, 3, 2, 0, 0, 0, 0, 0, 0},
			List:  defaultSpells(),
		},
		Story:     "Kael Vaerun traz a marca de um erro: um olho em chamas que surgiu após um ritual falho na biblioteca do mestre Maerin Ilphukiir...",
		Inventory: "",
		Notes:     "",
	}
}

func defaultSpells() []Spell {
	return []Spell{
		{Level: 0, Name: "Ataque Certeiro", Description: "Vantagem no próximo ataque."},
		{Level: 0, Name: "Raio de Fogo", Description: "2d10 de dano de fogo (Nvl 5)."},
		{Level: 1, Name: "Armadura Arcana", Description: "1° nível de abjuração\nTempo de Conjuração: 1 ação\nAlcance: Toque\nComponentes: V, S, M (um pedaço de couro curado)\nDuração: 8 horas\nVocê toca uma criatura voluntária que não esteja vestindo armadura e uma energia mágica protetora a envolve até a magia acabar. A CA base do alvo se torna 13 + o modificador de Destreza dele. A magia acaba se o alvo colocar uma armadura ou se você dissipa-la usando uma ação."},
		{Level: 1, Name: "Enfeitiçar Pessoa", Description: "1° nível de encantamento\nTempo de Conjuração: 1 ação\nAlcance: 9 metros\nComponentes: V, S\nDuração: 1 hora\nVocê tenta enfeitiçar um humanoide que você possa ver dentro do alcance. Ele deve realizar um teste de resistência de Sabedoria, e recebe vantagem nesse teste se você ou seus companheiros estiverem lutando com ele. Se ele falhar, ficará enfeitiçado por você até a magia acabar ou até você ou seus companheiros fizerem qualquer coisa nociva contra ele. A criatura enfeitiçada reconhece você como um conhecido amigável. Quando a magia acabar, a criatura saberá que foi enfeitiçada por você. Em Níveis Superiores: afete uma criatura adicional por nível acima do 1°."},
		{Level: 1, Name: "Escudo Arcano", Description: "1° nível de abjuração\nTempo de Conjuração: 1 reação, que você faz quando é atingido por um ataque ou alvo da magia mísseis mágicos\nAlcance: Pessoal\nComponentes: V, S\nDuração: 1 rodada\nUma barreira de energia invisível aparece e protege você. Até o início do seu próximo turno, você recebe +5 de bônus na CA, incluindo contra o ataque que desencadeou a magia, e você não sofre dano de mísseis mágicos."},
		{Level: 1, Name: "Raio de Bruxa", Description: "1° nível de evocação\nTempo de Conjuração: 1 ação\nAlcance: 9 metros\nComponentes: V, S, M (um galho de uma árvore que tenha sido atingida por um relâmpago)\nDuração: Concentração, até 1 minuto\nUm raio crepitante de energia azul é arremessado em uma criatura dentro do alcance, formando um arco elétrico contínuo entre você e o alvo. Faça um ataque à distância com magia contra a criatura. Se atingir, o alvo sofrerá 1d12 de dano elétrico e, em cada um dos seus turnos, pela duração, você pode usar sua ação para causar 1d12 de dano elétrico ao alvo, automaticamente. Em Níveis Superiores: o dano inicial aumenta em 1d12 por nível acima do 1°."},
		{Level: 1, Name: "Sono", Description: "1° nível de encantamento\nTempo de Conjuração: 1 ação\nAlcance: 36 metros\nComponentes: V, S, M (um punhado de areia fina, pétalas de rosas ou um grilo)\nDuração: 1 minuto\nEssa magia põem as criaturas num entorpecimento mágico. Jogue 5d8; o total é a quantidade de pontos de vida de criaturas afetados pela magia. As criaturas numa área de 6 metros de raio, centrada no ponto escolhido, dentro do alcance, são afetadas em ordem ascendente dos pontos de vida atuais delas. Em Níveis Superiores: jogue 2d8 adicionais por nível acima do 1°."},
		{Level: 1, Name: "Mãos Flamejantes", Description: "1° nível de evocação\nTempo de Conjuração: 1 ação\nAlcance: Pessoal (cone de 4,5 metros)\nComponentes: V, S\nDuração: Instantânea\nEnquanto você mantiver suas mãos com os polegares juntos e os dedos abertos, uma fino leque de chamas emerge das pontas dos seus dedos erguidos. Cada criatura num cone de 4,5 metros deve realizar um teste de resistência de Destreza. Uma criatura sofre 3d6 de dano de fogo se falhar no teste, ou metade desse dano se obtiver sucesso. Em Níveis Superiores: o dano aumenta em 1d6 por nível acima do 1°."},
		{Level: 3, Name: "Dissipar Magia", Description: "3° nível de abjuração\nTempo de Conjuração: 1 ação\nAlcance: 36 metros\nComponentes: V, S\nDuração: Instantânea\nEscolha uma criatura, objeto ou efeito mágico dentro do alcance. Qualquer magia de 3° nível ou inferior no alvo termina. Para cada magia de 4° nível ou superior no alvo, realize um teste de habilidade usando sua habilidade de conjuração. A CD é igual a 10 + o nível da magia. Se obtiver sucesso, a magia termina. Em Níveis Superiores: dissipa automaticamente magias de nível igual ou inferior ao espaço usado."},
		{Level: 3, Name: "Relâmpago", Description: "3° nível de evocação\nTempo de Conjuração: 1 ação\nAlcance: Pessoal (linha de 30 metros)\nComponentes: V, S, M (um pouco de pelo e uma haste de âmbar, cristal ou vidro)\nDuração: Instantânea\nUm relâmpago forma uma linha de 30 metros de comprimento e 1,5 metro de largura que é disparado por você em uma direção, à sua escolha. Cada criatura na linha deve realizar um teste de resistência de Destreza. Uma criatura sofre 8d6 de dano elétrico se falhar na resistência ou metade desse dano se obtiver sucesso. Em Níveis Superiores: o dano aumenta em 1d6 por nível acima do 3°."},
		{Level: 3, Name: "Toque Vampírico", Description: "3° nível de necromancia\nTempo de Conjuração: 1 ação\nAlcance: Pessoal\nComponentes: V, S\nDuração: Concentração, até 1 minuto\nO toque da sua mão coberta de sombras pode drenar a força vital dos outros para curar seus ferimentos. Realize um ataque corpo-a-corpo com magia contra uma criatura ao seu alcance. Se atingir, o alvo sofre 3d6 de dano necrótico e você recupera pontos de vida igual à metade do dano necrótico causado. Até a magia acabar, você pode realizar o ataque novamente, no seu turno, com uma ação. Em Níveis Superiores: o dano aumenta em 1d6 por nível acima do 3°."},
	}
}

package services

import "daebak/restapi/models"

// SeedQuantity is the starting stock for every seeded menu item.
const SeedQuantity = 20

// DefaultMenu is the catalog inserted the first time an account scope is
// seen with an empty menu collection. IDs are assigned on insert.
func DefaultMenu() []models.MenuItem {
	return []models.MenuItem{
		{
			Name:        "전주 비빔밥",
			Description: "신선한 나물과 소고기, 특제 고추장이 어우러진 전통 비빔밥.",
			Price:       14.99,
			Category:    "식사류",
			Tags:        []string{"인기", "매콤", "소고기"},
			Image:       "https://picsum.photos/400/300?random=1",
		},
		{
			Name:        "소불고기 정식",
			Description: "달콤 짭짤한 양념에 재운 부드러운 소고기와 밥, 반찬 세트.",
			Price:       18.50,
			Category:    "고기류",
			Tags:        []string{"소고기", "구이", "달콤"},
			Image:       "https://picsum.photos/400/300?random=2",
		},
		{
			Name:        "생고기 김치찌개",
			Description: "잘 익은 김치와 두툼한 돼지고기를 넣고 푹 끓인 얼큰한 찌개.",
			Price:       13.99,
			Category:    "찌개류",
			Tags:        []string{"매콤", "국물", "돼지고기"},
			Image:       "https://picsum.photos/400/300?random=3",
		},
		{
			Name:        "잡채",
			Description: "당면과 각종 채소, 버섯을 간장 소스에 볶아낸 잔치 음식.",
			Price:       12.50,
			Category:    "면류",
			Tags:        []string{"면요리", "채식가능"},
			Image:       "https://picsum.photos/400/300?random=4",
		},
		{
			Name:        "양념 치킨",
			Description: "바삭하게 튀긴 닭고기에 매콤달콤한 소스를 버무린 한국식 치킨.",
			Price:       19.99,
			Category:    "치킨",
			Tags:        []string{"튀김", "치킨", "안주"},
			Image:       "https://picsum.photos/400/300?random=5",
		},
		{
			Name:        "매운 떡볶이",
			Description: "쫄깃한 떡과 어묵을 매운 소스에 끓여낸 대표적인 길거리 간식.",
			Price:       10.99,
			Category:    "분식",
			Tags:        []string{"매콤", "쫄깃", "분식"},
			Image:       "https://picsum.photos/400/300?random=6",
		},
	}
}

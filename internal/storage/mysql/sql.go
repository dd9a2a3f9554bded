package mysql

// Identifiers are case-preserving; keep every column quoted.

const findHotelByNameSQL = "SELECT `id`, `GlobalPropertyName` FROM `Hotels` " +
	"WHERE LOWER(`GlobalPropertyName`) LIKE LOWER(?) LIMIT 1"

const deleteReviewsSQL = "DELETE FROM `Reviews` WHERE `HotelID` = ?"

// createdAt/updatedAt are set at persistence time, not carried from the page.
const insertReviewsPrefix = "INSERT INTO `Reviews`\n" +
	"  (`HotelID`, `ReviewerName`, `ReviewSubject`, `ReviewContent`, `ReviewDate`,\n" +
	"   `OverallRating`, `CleanlinessRating`, `LocationRating`, `ServiceRating`, `ValueRating`,\n" +
	"   `createdAt`, `updatedAt`)\n" +
	"VALUES "

const insertReviewsRow = "(?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP,CURRENT_TIMESTAMP)"

const listReviewsSQL = "SELECT `id`, `HotelID`, `ReviewerName`, `ReviewSubject`, `ReviewContent`, `ReviewDate`,\n" +
	"  `OverallRating`, `CleanlinessRating`, `LocationRating`, `ServiceRating`, `ValueRating`\n" +
	"FROM `Reviews`\n" +
	"WHERE `HotelID` = ?\n" +
	"ORDER BY `ReviewDate` DESC, `id` DESC\n" +
	"LIMIT ?"
